package service

import (
	"strings"
	"text/template"
)

const noConceptFound = "No relevant concept found in the knowledge base."

var tutorTemplate = template.Must(template.New("tutor").Parse(
	`You are a competitive programming tutor. Use the following retrieved concept to provide a better answer.
**User Query:** {{.Query}}
**Retrieved Concept:** {{.Concept}}
Please provide a detailed yet concise explanation.
`))

var evaluationTemplate = template.Must(template.New("evaluation").Parse(
	`**Problem:** {{.Title}}
**Description:** {{.Description}}
**User's Code:**
` + "```" + `
{{.Code}}
` + "```" + `
**Evaluation Criteria:**
- Correctness, Efficiency, Edge Cases
- Provide feedback but no direct solution
`))

func TutorPrompt(query, concept string) string {
	if strings.TrimSpace(concept) == "" {
		concept = noConceptFound
	}
	return render(tutorTemplate, map[string]string{"Query": query, "Concept": concept})
}

func EvaluationPrompt(title, description, code string) string {
	return render(evaluationTemplate, map[string]string{"Title": title, "Description": description, "Code": code})
}

func render(t *template.Template, data any) string {
	var b strings.Builder
	// Execute only fails on template or writer errors; both are static here.
	_ = t.Execute(&b, data)
	return b.String()
}
