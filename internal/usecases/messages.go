package usecases

import (
	"fmt"
	"strconv"
)

// formatCOP renders an amount of Colombian pesos with dot thousands
// separators, e.g. 35000 -> "$ 35.000". Amounts are whole pesos.
func formatCOP(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var grouped []byte
	for i, d := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, d)
	}

	if negative {
		return "-$ " + string(grouped)
	}
	return "$ " + string(grouped)
}

func rouletteWinMessage(displayName string, amount int64) string {
	return fmt.Sprintf("🎰 %s perdio la ruleta y paga %s!", displayName, formatCOP(amount))
}

func sessionClosedMessage(participantCount int, amount int64, description string) string {
	msg := fmt.Sprintf("🎉 Mesa cerrada! %d personas pagaron %s", participantCount, formatCOP(amount))
	if description != "" {
		msg += " — " + description
	}
	return msg
}

func fastPayerMessage(displayName string) string {
	return fmt.Sprintf("⚡ %s pago en menos de 1 minuto! Velocidad pura 🏎️", displayName)
}

// DebtReminderMessage escalates with the days a split amount has gone
// unpaid. Exported for the reminder job.
func DebtReminderMessage(debtorName, creditorName string, amount int64, daysOverdue int) string {
	formattedAmount := formatCOP(amount)

	switch {
	case daysOverdue <= 1:
		return fmt.Sprintf("Hey, te falta pagar %s de la ultima salida", formattedAmount)
	case daysOverdue <= 3:
		return fmt.Sprintf("Le debes %s a %s... y ya lo sabe", formattedAmount, creditorName)
	case daysOverdue <= 7:
		return fmt.Sprintf("Van %d dias. %s esta considerando cobrarte intereses emocionales", daysOverdue, creditorName)
	case daysOverdue <= 15:
		return fmt.Sprintf("%s le debes a %s hace %d dias. Ya ni te saluda.", formattedAmount, creditorName, daysOverdue)
	default:
		return fmt.Sprintf("%s, llevas %d dias debiendo %s. %s ya te borro de sus contactos.", debtorName, daysOverdue, formattedAmount, creditorName)
	}
}
