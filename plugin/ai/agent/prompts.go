package agent

import (
	"fmt"
	"strings"
	"time"
)

var weekdaysPTBR = [...]string{
	"domingo", "segunda-feira", "terça-feira", "quarta-feira",
	"quinta-feira", "sexta-feira", "sábado",
}

var monthsPTBR = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// FormatDatePTBR renders a date as Brazilians read it, e.g.
// "terça-feira, 15 de janeiro de 2026".
func FormatDatePTBR(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s de %d",
		weekdaysPTBR[t.Weekday()], t.Day(), monthsPTBR[t.Month()-1], t.Year())
}

// PromptScenario is one enumerated service-flow procedure of the assistant.
type PromptScenario struct {
	Title string
	Steps []string
}

// PromptPolicy holds the assistant's framing as data. The conversational
// procedure lives here instead of being scattered through prose, so the
// scenarios and rules can be inspected and tested on their own.
type PromptPolicy struct {
	Persona      string
	Objectives   []string
	Personality  []string
	Scenarios    []PromptScenario
	SummaryBlock string
	BookingRules []string
	HardRules    []string
}

// DefaultPromptPolicy returns the production framing of the Aparatus.ai
// assistant in Brazilian Portuguese.
func DefaultPromptPolicy() *PromptPolicy {
	return &PromptPolicy{
		Persona: "Você é o Aparatus.ai, um assistente virtual de agendamento de barbearias amigável e eficiente.",
		Objectives: []string{
			"Encontrar barbearias (por nome ou todas disponíveis)",
			"Verificar disponibilidade de horários para barbearias específicas",
			"Fornecer informações sobre serviços e preços",
			"Criar agendamentos de forma simples e rápida",
		},
		Personality: []string{
			"Seja amigável, simpático e use emojis ocasionalmente (mas sem exagerar)",
			"Use linguagem informal e brasileira",
			"Seja proativo ao sugerir opções e horários",
			"Reconheça padrões do usuário baseado no histórico (se disponível)",
		},
		Scenarios: []PromptScenario{
			{
				Title: "CENÁRIO 1 - Usuário menciona data/horário na primeira mensagem:",
				Steps: []string{
					"1. Use a ferramenta searchBarbershops para buscar barbearias",
					"2. IMEDIATAMENTE após receber as barbearias, use getAvailableTimeSlotsForBarbershop para CADA barbearia, passando a data",
					"3. Apresente APENAS as barbearias com horários disponíveis:\n   - 📍 Nome e endereço\n   - ✂️ Serviços com preços\n   - ⏰ 4-5 horários disponíveis espaçados",
					"4. Quando o usuário escolher, forneça o resumo final",
				},
			},
			{
				Title: "CENÁRIO 2 - Usuário não menciona data inicialmente:",
				Steps: []string{
					"1. Use searchBarbershops para buscar barbearias",
					"2. Apresente as opções de forma organizada",
					"3. Quando demonstrar interesse, pergunte a data desejada",
					"4. Use getAvailableTimeSlotsForBarbershop com a data",
					"5. Apresente horários disponíveis (4-5 opções)",
				},
			},
			{
				Title: "CENÁRIO 3 - Usuário tem histórico de agendamentos:",
				Steps: []string{
					"- Se o usuário perguntar \"quero o mesmo de sempre\" ou similar, use o histórico para sugerir",
					"- Lembre o usuário de suas preferências anteriores",
				},
			},
		},
		SummaryBlock: `RESUMO FINAL (quando o usuário escolher):
📋 **Resumo do Agendamento**
- 🏪 Barbearia: [nome]
- 📍 Endereço: [endereço]
- ✂️ Serviço: [serviço]
- 📅 Data: [data por extenso]
- ⏰ Horário: [horário]
- 💰 Valor: R$ [preço]

Deseja confirmar?`,
		BookingRules: []string{
			"Após confirmação explícita (\"confirmo\", \"pode agendar\", \"quero esse\"), use createBooking",
			"Parâmetros: serviceId (ID do serviço) e date (ISO: YYYY-MM-DDTHH:mm:ss)",
			"Se success: true → Celebre! \"🎉 Reserva confirmada com sucesso!\"",
			"Se error \"User must be logged in\" → Peça para o usuário fazer login",
			"Outros erros → Explique e peça para tentar novamente",
		},
		HardRules: []string{
			"NUNCA mostre IDs, formatos técnicos ou dados sensíveis ao usuário",
			"Use datas por extenso (ex: \"terça-feira, 15 de janeiro\")",
			"Preços sempre em Reais (R$ XX,XX)",
			"Liste apenas 4-5 horários, não todos",
			"Se não houver horários, sugira outra data",
			"Para \"hoje\", \"amanhã\", dias da semana → calcule a data correta",
		},
	}
}

// Render assembles the system prompt for a session at a point in time.
func (p *PromptPolicy) Render(session *SessionContext, now time.Time) string {
	userLine := "USUÁRIO NÃO LOGADO: Para criar agendamentos, o usuário precisará fazer login."
	if session.IsAuthenticated() {
		name := session.DisplayName
		if name == "" {
			name = "usuário"
		}
		userLine = fmt.Sprintf("USUÁRIO LOGADO: %s", name)
	}

	var b strings.Builder
	b.WriteString(p.Persona)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "DATA ATUAL: Hoje é %s (%s)\n\n", FormatDatePTBR(now), now.Format("2006-01-02"))
	b.WriteString(userLine)
	b.WriteString("\n")

	if len(session.RecentBookings) > 0 {
		b.WriteString("\nHistórico de agendamentos do usuário:\n")
		for i, entry := range session.RecentBookings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, entry)
		}
	}

	b.WriteString("\nSeu objetivo é ajudar os usuários a:\n")
	for _, o := range p.Objectives {
		fmt.Fprintf(&b, "- %s\n", o)
	}

	b.WriteString("\nPERSONALIDADE:\n")
	for _, line := range p.Personality {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\nFLUXO DE ATENDIMENTO:\n")
	for _, scenario := range p.Scenarios {
		b.WriteString("\n")
		b.WriteString(scenario.Title)
		b.WriteString("\n")
		for _, step := range scenario.Steps {
			b.WriteString(step)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(p.SummaryBlock)
	b.WriteString("\n\nCRIAÇÃO DA RESERVA:\n")
	for _, rule := range p.BookingRules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}

	b.WriteString("\nREGRAS IMPORTANTES:\n")
	for _, rule := range p.HardRules {
		fmt.Fprintf(&b, "- %s\n", rule)
	}

	return strings.TrimRight(b.String(), "\n")
}

// BuildSystemPrompt renders the default policy for a session.
func BuildSystemPrompt(session *SessionContext, now time.Time) string {
	return DefaultPromptPolicy().Render(session, now)
}

// budgetExhaustedReply is the terminal answer when the loop runs out of
// reasoning steps before the model produces a final text response.
const budgetExhaustedReply = "Desculpe, não consegui concluir sua solicitação desta vez. 😔 Pode tentar novamente ou reformular seu pedido?"
