package advisory

import (
	"fmt"
	"strings"
)

const analysisSystemPrompt = `You are a compassionate and knowledgeable sexual and reproductive health advisor.
Your role is to provide evidence-based, non-judgmental guidance to help people make informed
decisions about their health. Always maintain privacy, respect, and accuracy.
Provide responses in JSON format with the following structure:
{
  "analysis": "detailed analysis",
  "riskLevel": "low|moderate|high|critical",
  "score": 0-100,
  "recommendations": ["recommendation1", "recommendation2"],
  "resources": [{"title": "", "description": "", "type": ""}]
}`

const chatSystemPrompt = `You are a supportive and knowledgeable sexual and reproductive health assistant.
Provide helpful, accurate, and empathetic responses. Always prioritize user safety and
well-being. If a question is beyond your scope or requires professional medical attention,
recommend consulting with a healthcare provider.`

// buildAnalysisPrompt renders the demographics, category and every
// question/answer pair into the user turn of a structured analysis request.
func buildAnalysisPrompt(ctx Context) string {
	var b strings.Builder
	b.WriteString("Analyze the following sexual and reproductive health assessment:\n\n")
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Age: %d\n", ctx.UserAge)
	if ctx.UserGender != "" {
		fmt.Fprintf(&b, "- Gender: %s\n", ctx.UserGender)
	}
	fmt.Fprintf(&b, "- Assessment Category: %s\n\n", ctx.Category)
	b.WriteString("Responses:\n")
	for i, r := range ctx.Responses {
		fmt.Fprintf(&b, "%d. %s\n", i+1, r.Question)
		fmt.Fprintf(&b, "   Answer: %s\n\n", string(r.Answer))
	}
	b.WriteString("Based on this information, provide:\n")
	b.WriteString("1. A comprehensive analysis of the user's health status and risks\n")
	b.WriteString("2. A risk level (low, moderate, high, or critical)\n")
	b.WriteString("3. A numerical score (0-100)\n")
	b.WriteString("4. Specific, actionable recommendations\n")
	b.WriteString("5. Relevant resources with actual URLs to reputable health sites ")
	b.WriteString("(e.g. plannedparenthood.org, cdc.gov, who.int)\n\n")
	b.WriteString("Remember to be supportive, non-judgmental, and evidence-based.")
	return b.String()
}

// buildTipsPrompt asks for a small set of per-profile health tips as a JSON
// array of strings.
func buildTipsPrompt(age int, gender string) string {
	who := fmt.Sprintf("a %d-year-old", age)
	if gender != "" {
		who += " " + gender
	}
	return fmt.Sprintf(`Generate 3-5 personalized health tips for %s. Focus on sexual and reproductive health, wellness, and preventive care.
Return as a JSON array of strings.`, who)
}
