package refine

import (
	"fmt"
	"strings"

	"prompt-refinery-api/internal/domain/refine"
)

// 指令文本由固定段落拼装：引导行、目标模型行、规则、原始 prompt、
// 答案块、上一轮预览、问答转写。显式缓存命中时前缀段不随请求发送。

func familyLine(family refine.Family) string {
	if family == refine.FamilyImage {
		return "Target generation model: gemini-2.5-flash-image (image generation)."
	}
	return "Target generation model: gemini-2.5-flash (text)."
}

const imageGroundingLine = "- If reference image(s) are attached to this request, consider them as grounding visual context when drafting the prompt. These same images will also be sent to the gemini-2.5-flash-image generation step."

var directiveRules = []string{
	"Rules:",
	`- If critical details are missing, return status="needs_clarification" with 1-3 multiple-choice questions (each with exactly one recommended option and a brief 'why'), plus a previewPrompt written entirely based on your recommended options.`,
	`- Never return status="needs_clarification" without questions[]. If you have no questions to ask, set status="ready" and provide perfectedPrompt.`,
	`- If details are sufficient, return status="ready" with perfectedPrompt only.`,
	"- Final prompts must be a single paragraph in English.",
	"- Use question ids as q1, q2, ... and option ids as A, B, C, ... (uppercase letters).",
	"- Provide recommendedAnswers as the list of (questionId, optionId) for your recommended choices.",
}

func directiveBase(family refine.Family, hasImages bool) string {
	lines := []string{
		"You are refining a user's raw intent into a perfect, ready-to-use prompt.",
		familyLine(family),
	}
	if hasImages {
		lines = append(lines, imageGroundingLine)
	}
	lines = append(lines, directiveRules...)
	return strings.Join(lines, "\n")
}

func rawPromptBlock(rawPrompt string) string {
	return fmt.Sprintf("\nRaw Prompt:\n\"\"\"\n%s\n\"\"\"", rawPrompt)
}

func answersBlock(title string, answers []refine.Answer) string {
	if len(answers) == 0 {
		return ""
	}
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf("- %s: %s", a.QuestionID, a.OptionID))
	}
	return fmt.Sprintf("\n%s:\n%s", title, strings.Join(lines, "\n"))
}

func previousPreviewBlock(title, preview string) string {
	if preview == "" {
		return ""
	}
	return fmt.Sprintf("\n%s:\n\"\"\"\n%s\n\"\"\"", title, preview)
}

// serializeQA 把上一轮问题与本轮选择转写成问答记录
func serializeQA(questions []refine.QuestionItem, answers []refine.Answer) string {
	if len(questions) == 0 {
		return ""
	}
	answerMap := make(map[string]string, len(answers))
	for _, a := range answers {
		answerMap[a.QuestionID] = a.OptionID
	}
	lines := []string{"\nClarification Q&A Transcript:"}
	for _, q := range questions {
		selected := answerMap[q.ID]
		label := selected
		for _, o := range q.Options {
			if o.ID == selected {
				label = o.Label
				break
			}
		}
		if label == "" {
			label = "(unanswered)"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s", q.ID, q.Text))
		lines = append(lines, fmt.Sprintf("  → Chosen: %s", label))
	}
	return strings.Join(lines, "\n")
}

// BuildDirective 无显式缓存时的完整主指令
func BuildDirective(req *refine.RefineRequest, hasImages bool) string {
	return strings.Join([]string{
		directiveBase(req.Family, hasImages),
		rawPromptBlock(req.RawPrompt),
		answersBlock("User Answers", req.Answers),
		previousPreviewBlock("Previous Preview Prompt (for grounding only)", req.PreviousPreviewPrompt),
		serializeQA(req.PreviousQuestions, req.Answers),
	}, "\n")
}

// BuildCachedPrefix 显式缓存的稳定前缀：引导段 + 原始 prompt
// 前缀内容在一个会话的多轮之间保持不变，才能复用同一份缓存。
func BuildCachedPrefix(req *refine.RefineRequest, hasImages bool) string {
	return strings.Join([]string{
		directiveBase(req.Family, hasImages),
		rawPromptBlock(req.RawPrompt),
	}, "\n")
}

// BuildPrimarySuffix 显式缓存命中时随请求发送的可变后缀
func BuildPrimarySuffix(req *refine.RefineRequest) string {
	return strings.Join([]string{
		answersBlock("User Answers", req.Answers),
		previousPreviewBlock("Previous Preview Prompt (for grounding only)", req.PreviousPreviewPrompt),
		serializeQA(req.PreviousQuestions, req.Answers),
	}, "\n")
}

func previewBase(family refine.Family, hasImages bool) string {
	lines := []string{
		"Synthesize a preview prompt now, assuming the following answers are chosen.",
		familyLine(family),
	}
	if hasImages {
		lines = append(lines, imageGroundingLine)
	}
	lines = append(lines, "- The previewPrompt must be a single, descriptive paragraph in English.")
	return strings.Join(lines, "\n")
}

// FollowupInput 预览/定稿补充调用的指令输入
type FollowupInput struct {
	RawPrompt         string
	Answers           []refine.Answer
	Family            refine.Family
	PreviousPreview   string
	PreviousQuestions []refine.QuestionItem
	HasImages         bool
}

// BuildPreviewDirective 无显式缓存时的预览补充指令
func BuildPreviewDirective(in FollowupInput) string {
	return strings.Join([]string{
		previewBase(in.Family, in.HasImages),
		rawPromptBlock(in.RawPrompt),
		answersBlock("Assumed Answers", in.Answers),
		previousPreviewBlock("Previous Preview (context)", in.PreviousPreview),
		serializeQA(in.PreviousQuestions, in.Answers),
	}, "\n")
}

// BuildPreviewSuffix 显式缓存命中时的预览后缀
// 缓存前缀里已含原始 prompt，这里不再重复。
func BuildPreviewSuffix(in FollowupInput) string {
	return strings.Join([]string{
		previewBase(in.Family, in.HasImages),
		answersBlock("Assumed Answers", in.Answers),
		previousPreviewBlock("Previous Preview (context)", in.PreviousPreview),
		serializeQA(in.PreviousQuestions, in.Answers),
	}, "\n")
}

func finalBase(family refine.Family, hasImages bool) string {
	lines := []string{
		"Synthesize the perfected prompt now, considering the user's intent and the following answers.",
		familyLine(family),
	}
	if hasImages {
		lines = append(lines, imageGroundingLine)
	}
	lines = append(lines, "- The perfectedPrompt must be a single, descriptive paragraph in English.")
	return strings.Join(lines, "\n")
}

// BuildFinalDirective 无显式缓存时的定稿补充指令
func BuildFinalDirective(in FollowupInput) string {
	return strings.Join([]string{
		finalBase(in.Family, in.HasImages),
		rawPromptBlock(in.RawPrompt),
		answersBlock("Clarification Answers", in.Answers),
		previousPreviewBlock("Previous Preview (context)", in.PreviousPreview),
		serializeQA(in.PreviousQuestions, in.Answers),
	}, "\n")
}

// BuildFinalSuffix 显式缓存命中时的定稿后缀
func BuildFinalSuffix(in FollowupInput) string {
	return strings.Join([]string{
		finalBase(in.Family, in.HasImages),
		answersBlock("Clarification Answers", in.Answers),
		previousPreviewBlock("Previous Preview (context)", in.PreviousPreview),
		serializeQA(in.PreviousQuestions, in.Answers),
	}, "\n")
}
