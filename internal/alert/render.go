package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const renderTimeLayout = "2006-01-02 15:04:05"

// Render produces the notification text for one alert. The current rate is
// formatted to two decimals; the target is shown as a grouped won amount,
// matching how the settings screen displays it. Timestamps use the supplied
// location (Asia/Seoul in the default deployment).
func Render(a Alert, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}

	emoji, action, reason := "💰🟢", "매수", "환율이 목표가 이하로 떨어졌습니다!"
	if a.Direction == DirectionSell {
		emoji, action, reason = "📈🔴", "매도", "환율이 목표가 이상으로 올랐습니다!"
	}

	builder := strings.Builder{}
	builder.WriteString(fmt.Sprintf("%s %s 알림 (%d단계)\n\n", emoji, action, a.Stage))
	builder.WriteString(fmt.Sprintf("💱 현재 환율: ₩%s\n", a.Rate.StringFixed(2)))
	builder.WriteString(fmt.Sprintf("🎯 목표가: ₩%s\n", groupWon(a.Target)))
	builder.WriteString(fmt.Sprintf("⏰ 시간: %s\n\n", a.At.In(loc).Format(renderTimeLayout)))
	builder.WriteString(reason)
	return builder.String()
}

// groupWon renders the integer won amount with thousands separators.
func groupWon(d decimal.Decimal) string {
	digits := d.Round(0).String()

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var grouped strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped.WriteByte(',')
		}
		grouped.WriteRune(r)
	}

	if negative {
		return "-" + grouped.String()
	}
	return grouped.String()
}
