package ai

import (
	"fmt"
	"strings"

	"leadnavi/internal/models"
)

func orBlank(v string) string {
	if !models.IsFilled(v) {
		return models.SentinelBlank
	}
	return v
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// BuildCustomerContext renders the full record into the profile block
// shared by every advisory prompt: all intake fields, recent
// interactions, todos, checklist progress and both chat transcripts.
func BuildCustomerContext(c *models.Customer) string {
	name := orBlank(c.Name)
	birth := models.SentinelBlank
	if models.IsFilled(c.BirthYear) && models.IsFilled(c.BirthMonth) {
		birth = fmt.Sprintf("%s年%s月", c.BirthYear, c.BirthMonth)
	}
	age := models.SentinelBlank
	if c.Age > 0 {
		age = fmt.Sprintf("%d", c.Age)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `【お客様情報】
名前: %s（※「%sさん」と呼ぶこと）
生年月日: %s
年齢: %s歳
現在地: %s
家族構成: %s
世帯年収: %s
現在の住まい: %s
探索理由(登録時記入): %s
引越し理由: %s
物件種別: %s
登録目的: %s
希望エリア: %s
予算: %s
フリーコメント(登録時記入): %s
希望広さ: %s
希望間取り: %s
駅距離: %s
職業: %s
年収: %s
自己資金: %s
ローン状況: %s
購入動機: %s
購入希望時期: %s
メール: %s
電話: %s
LINE: %s
配偶者職業: %s
配偶者年収: %s
現在の家賃: %s
ペット: %s
駐車場: %s
こだわり条件: %s
メモ: %s`,
		name, name, birth, age,
		orBlank(c.Prefecture), orBlank(c.Family), orBlank(c.HouseholdIncome), orBlank(c.CurrentHome),
		orBlank(c.SearchReason), orBlank(c.Reason), orBlank(c.PropertyType), orBlank(c.Purpose),
		orBlank(c.Area), orBlank(c.Budget), orBlank(c.FreeComment),
		orBlank(c.Size), orBlank(c.Layout), orBlank(c.StationDistance),
		orBlank(c.Occupation), orBlank(c.Income), orBlank(c.Savings), orBlank(c.LoanStatus),
		orBlank(c.Motivation), orBlank(c.Timeline),
		orBlank(c.Email), orBlank(c.Phone), orBlank(c.Line),
		orBlank(c.SpouseOccupation), orBlank(c.SpouseIncome), orBlank(c.CurrentRent),
		orBlank(c.Pet), orBlank(c.Parking), orBlank(c.SpecialRequirements), orBlank(c.Memo))

	if len(c.Interactions) > 0 {
		sb.WriteString("\n\n【直近のやり取り履歴】\n")
		limit := len(c.Interactions)
		if limit > 10 {
			limit = 10
		}
		for _, i := range c.Interactions[:limit] {
			fmt.Fprintf(&sb, "%s (%s): %s\n", i.Date, i.Method, i.Content)
		}
	}

	if len(c.Todos) > 0 {
		sb.WriteString("\n\n【現在のToDo】\n")
		for _, t := range c.Todos {
			state := "未完了"
			if t.Done {
				state = "完了"
			}
			priority := t.Priority
			if priority == "" {
				priority = models.PriorityMedium
			}
			fmt.Fprintf(&sb, "[%s] %s %s", state, priority, t.Text)
			if t.Deadline != "" {
				fmt.Fprintf(&sb, " (期限: %s)", t.Deadline)
			}
			sb.WriteString("\n")
		}
	}

	if len(c.Checklist) > 0 {
		done, total := 0, 0
		for _, phase := range c.Checklist {
			for _, item := range phase.Items {
				total++
				if item.Checked {
					done++
				}
			}
		}
		fmt.Fprintf(&sb, "\n\n【チェックリスト進捗】 %d/%d 完了", done, total)
	}

	if len(c.ChatHistory) > 0 {
		sb.WriteString("\n\n【AIチャット履歴（MuchiNaviとのやり取り）】\n")
		history := c.ChatHistory
		if len(history) > 20 {
			history = history[len(history)-20:]
		}
		for _, m := range history {
			role := "AI"
			if m.Role == "user" {
				role = "お客様"
			}
			fmt.Fprintf(&sb, "%s: %s\n", role, truncate(m.Content, 300))
		}
	}

	if len(c.DirectChatHistory) > 0 {
		sb.WriteString("\n\n【エージェント直接チャット履歴（お客様↔岡本のやり取り）】\n")
		history := c.DirectChatHistory
		if len(history) > 15 {
			history = history[len(history)-15:]
		}
		for _, m := range history {
			role := "岡本(エージェント)"
			if m.Role == "user" {
				role = "お客様"
			}
			fmt.Fprintf(&sb, "%s: %s\n", role, truncate(m.Content, 300))
		}
	}

	return sb.String()
}
