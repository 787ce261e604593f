package summary

import "fmt"

const summaryPromptTemplate = `Give a concise summary of the following video comments such that a reader can get the general sentiment of the comment section. Speak like a Minecraft villager.

Rules:
- Report the overall sentiment and majority opinion, the way people generally felt about the video they just watched.
- DO NOT quote or repeat comments verbatim; this appears at the top of the comment section and nobody wants to read a comment twice.
- Do not add information that is not present in the comments. Opinions about the sentiment are fine; made-up facts are not.
- You do not have to account for every comment.

Comments:
%s`

// buildSummaryPrompt renders the persona prompt with the newline-joined
// comment texts.
func buildSummaryPrompt(commentTexts string) string {
	return fmt.Sprintf(summaryPromptTemplate, commentTexts)
}
