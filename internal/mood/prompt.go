package mood

import "fmt"

const promptTemplate = `Analyze the mood and emotions in this text: %q

Based on the detected mood, recommend 5 songs that would resonate with or complement this emotional state.
Include mood, intensity (1-10), emotions, and song recommendations (title, artist, reason).
Respond ONLY in this strict JSON format:

{
  "mood": string,
  "intensity": number (1-10),
  "emotions": string[],
  "songs": [
    {
      "title": string,
      "artist": string,
      "reason": string
    }
  ]
}`

// Prompt builds the model instruction for text.
func Prompt(text string) string {
	return fmt.Sprintf(promptTemplate, text)
}
