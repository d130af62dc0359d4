// prompts.go - Centralized prompt templates for captcha recognition
package ai

import "fmt"

// GetCaptchaPrompt returns the single-guess recognition instruction.
// The rules mirror what real captcha images look like: 4-6 dominant glyphs
// with smaller decorative noise sprinkled around them.
func GetCaptchaPrompt() string {
	return `You are a CAPTCHA solver. Read the text shown in the attached image.

RULES:
1. The answer contains ONLY uppercase letters A-Z and digits 0-9.
2. The answer is 4 to 6 characters long.
3. Focus on the LARGE, dominant glyphs. Ignore tiny decorative characters,
   dots, lines and background noise deliberately added to confuse scanners.
4. Do not explain, do not describe the image.

Respond with JSON only, exactly this shape:
{"text": "ANSWER"}`
}

// GetCaptchaTopKPrompt returns the ranked-guesses variant: the provider is
// asked to hedge with its k best distinct readings, most confident first.
func GetCaptchaTopKPrompt(k int) string {
	if k <= 1 {
		return GetCaptchaPrompt()
	}
	return fmt.Sprintf(`You are a CAPTCHA solver. Read the text shown in the attached image.

RULES:
1. The answer contains ONLY uppercase letters A-Z and digits 0-9.
2. The answer is 4 to 6 characters long.
3. Focus on the LARGE, dominant glyphs. Ignore tiny decorative characters,
   dots, lines and background noise deliberately added to confuse scanners.
4. Give your %d best DISTINCT readings, ordered from most to least confident.
   If you are certain, repeat variations of ambiguous characters (0/O, 1/I,
   5/S, 8/B) in the lower-ranked guesses.
5. Do not explain, do not describe the image.

Respond with JSON only, exactly this shape:
{"candidates": ["BEST", "SECOND", "THIRD"]}`, k)
}
