package domain

import "fmt"

// BuildRegionPrompt returns the fixed instruction asking for one RegionRecord
// as bare JSON. The output depends only on name.
func BuildRegionPrompt(name string) string {
	return fmt.Sprintf(`Provide detailed information about %[1]s state in India. Return ONLY a valid JSON object (no markdown, no code blocks, no explanation) with this exact structure:

{
  "capital": "capital city name",
  "population": "approximate population",
  "area": "area in sq km",
  "languages": "main languages spoken",
  "history": "A detailed paragraph about the historical background of %[1]s (4-5 sentences)",
  "culture": "A detailed paragraph about the cultural heritage and traditions of %[1]s (4-5 sentences)",
  "mainImage": "https://picsum.photos/800/400",
  "highlights": [
    {"name": "Famous festival or dance", "image": "https://picsum.photos/300/200"},
    {"name": "Traditional cuisine or dish", "image": "https://picsum.photos/300/201"},
    {"name": "Historical monument or site", "image": "https://picsum.photos/300/202"},
    {"name": "Art form or craft", "image": "https://picsum.photos/300/203"}
  ]
}`, name)
}

// BuildVideoScriptPrompt asks for a video script about a region, shaped by the
// user's free-text request.
func BuildVideoScriptPrompt(region, request string) string {
	return fmt.Sprintf(`Create a detailed video script for %s, India based on this request: %q.

Include:
- Opening hook (10-15 seconds)
- Main content sections with timestamps
- Visual suggestions for each scene
- Narration text
- Closing call-to-action

Format it as a proper video script with scene numbers and timestamps.`, region, request)
}

// BuildDecodePrompt asks the model to identify the language or script of text
// and translate it to English.
func BuildDecodePrompt(text string) string {
	return `The following text might be in a regional Indian script or language. Please:
1. Identify the language/script
2. Provide accurate English translation
3. Preserve the original meaning and context

Text to decode:
` + text + `

Provide the response in this format:
**Detected Language/Script:** [Name]
**Translation:**
[English translation here]`
}

// DescribeAttachmentPrompt is sent when a chat attachment arrives without a
// message.
const DescribeAttachmentPrompt = "Describe this file and how it relates to India's states, culture, or history."
