// Package prompts builds the generative prompts for roadmap synthesis.
// User-facing prompt text is Portuguese to match the produced content.
package prompts

import (
	"fmt"
	"strings"

	"github.com/trilha-app/trilha-engine/pkg/models"
)

// RoadmapSystemMessage instructs the model to emit bare JSON on the
// roadmap calls. Responses still arrive fenced or annotated often
// enough that parsing goes through structured-output recovery anyway.
const RoadmapSystemMessage = "You are a career roadmap expert. Return ONLY pure JSON without markdown formatting, code blocks, or any other text. No ```json tags."

// EnrichmentSystemMessage is the bare-JSON instruction for the batch
// resource and milestone call.
const EnrichmentSystemMessage = "Return ONLY pure JSON without markdown formatting, code blocks, or any other text. No ```json tags."

func skillLine(s *models.Skill) string {
	category := s.Category
	if category == "" {
		category = "geral"
	}
	return fmt.Sprintf("- %s (%s skill, %s)", s.Name, s.Type, category)
}

// BuildSuggestionPrompt asks for 5-10 relevant skills from the catalog
// for a career goal, fundamentals first.
func BuildSuggestionPrompt(careerGoal, experience string, catalog []*models.Skill) string {
	var sb strings.Builder

	sb.WriteString("Você é um consultor de carreira especializado em tecnologia e desenvolvimento profissional.\n\n")
	sb.WriteString(fmt.Sprintf("Objetivo de carreira do usuário: %s\n", careerGoal))
	sb.WriteString(fmt.Sprintf("Nível de experiência: %s\n\n", experience))
	sb.WriteString("Skills disponíveis em nosso banco de dados:\n")
	for _, s := range catalog {
		sb.WriteString(skillLine(s))
		sb.WriteString("\n")
	}
	sb.WriteString(`
Analise o objetivo de carreira e o nível de experiência do usuário e sugira 5-10 skills da lista acima que sejam mais relevantes para alcançar esse objetivo. Priorize skills fundamentais primeiro, depois intermediárias e avançadas.

Retorne APENAS um JSON válido no seguinte formato (sem markdown, sem code blocks):
{
  "skills": [
    {
      "name": "name exato da skill da lista acima",
      "reason": "por que essa skill é relevante"
    }
  ]
}`)

	return sb.String()
}

// BuildOrderingPrompt asks the model to arrange the caller-selected
// skills into a learning order and annotate each with a rationale,
// effort estimate and prerequisites. Unlisted skills are forbidden;
// the reconciler drops them if the model ignores that.
func BuildOrderingPrompt(careerGoal, experience string, selected []*models.Skill) string {
	names := make([]string, len(selected))
	for i, s := range selected {
		names[i] = s.Name
	}

	var sb strings.Builder

	sb.WriteString("Você é um consultor de carreira especializado em tecnologia.\n\n")
	sb.WriteString(fmt.Sprintf("Meta de carreira: %s\n", careerGoal))
	sb.WriteString(fmt.Sprintf("Nível de experiência: %s\n", experience))
	sb.WriteString(fmt.Sprintf("Skills selecionadas pelo usuário: %s\n\n", strings.Join(names, ", ")))
	sb.WriteString("O usuário selecionou as seguintes skills para criar seu roadmap de aprendizado:\n")
	for _, s := range selected {
		sb.WriteString(skillLine(s))
		sb.WriteString("\n")
	}
	sb.WriteString(`
IMPORTANTE: Use APENAS as skills listadas acima. NÃO sugira skills adicionais.

Organize essas skills na ordem ideal de aprendizado (skills fundamentais primeiro, depois intermediárias e avançadas). Identifique quais skills são pré-requisitos para outras.

Retorne um JSON válido com:
{
  "titulo": "Título inspirador para o roadmap (máx 60 chars)",
  "skills": [
    {
      "name": "nome EXATO da skill da lista acima",
      "description": "por que essa skill é importante (máx 100 chars)",
      "estimated_hours": 20,
      "prerequisites": ["nome da skill 1", "nome da skill 2"]
    }
  ]
}`)

	return sb.String()
}

// BuildEnrichmentPrompt asks for free learning resources and
// progressive milestones for every skill in one batch call.
func BuildEnrichmentPrompt(careerGoal string, skillNames []string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Para as seguintes skills de um roadmap de %s, encontre 2-3 recursos de aprendizado GRATUITOS para CADA skill e crie 5-7 marcos progressivos de aprendizado para CADA skill.\n\n", careerGoal))
	sb.WriteString(fmt.Sprintf("Skills: %s\n", strings.Join(skillNames, ", ")))
	sb.WriteString(`
PRIORIZE recursos GRATUITOS:
- cursos/tutoriais (freeCodeCamp, sites de cursos gratuitos, Udemy gratuitos)
- documentação oficial (MDN, docs oficiais)
- tutoriais em vídeo (YouTube canais respeitáveis)
- projetos práticos com repos no GitHub
- evite links de playlists do YouTube que geralmente estão quebrados ou desatualizados

IMPORTANTE:
- Todos os marcos (milestones) devem estar em PORTUGUÊS
- Títulos e objetivos dos marcos devem ser claros e acionáveis
- Recursos podem estar em inglês ou português

Retorne JSON com esta estrutura EXATA:
{
  "skills_data": [
    {
      "skill_name": "nome exato da skill da lista",
      "resources": [
        {
          "title": "título do recurso",
          "url": "https://...",
          "type": "curso|artigo|vídeo|tutorial|documentação|projeto|etc",
          "platform": "nome da plataforma",
          "is_free": true
        }
      ],
      "milestones": [
        {
          "level": 1,
          "title": "Título do marco em português (máx 50 chars)",
          "objectives": ["objetivo 1", "objetivo 2", "objetivo 3"]
        }
      ]
    }
  ]
}`)

	return sb.String()
}
