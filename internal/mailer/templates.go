package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"leadnavi/internal/events"
)

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

var templateFuncs = template.FuncMap{
	"dash": dash,
	"preview": func(s string, max int) string {
		r := []rune(s)
		if len(r) <= max {
			return s
		}
		return string(r[:max]) + "..."
	},
}

var welcomeTmpl = template.Must(template.New("welcome").Funcs(templateFuncs).Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Hiragino Kaku Gothic ProN', sans-serif; max-width: 520px; margin: 0 auto; background: #ffffff;">
  <div style="background: linear-gradient(135deg, #4a90d9, #74b9ff); padding: 40px 32px; text-align: center; border-radius: 0 0 20px 20px;">
    <div style="font-size: 32px; margin-bottom: 12px;">🏠</div>
    <h1 style="color: white; font-size: 22px; font-weight: 700; margin: 0 0 8px 0; letter-spacing: -0.02em;">
      ご登録ありがとうございます！
    </h1>
    <p style="color: rgba(255,255,255,0.85); font-size: 13px; margin: 0;">
      MuchiNavi — あなたの住まい探しAIアシスタント
    </p>
  </div>

  <div style="padding: 32px 28px;">
    <p style="font-size: 15px; line-height: 1.8; color: #1d1d1f; margin: 0 0 20px 0;">
      {{.Name}}さん、こんにちは！<br>
      住宅購入専門エージェントの<strong>岡本岳大</strong>です。
    </p>
    <p style="font-size: 14px; line-height: 1.8; color: #1d1d1f; margin: 0 0 20px 0;">
      MuchiNaviにご登録いただき、ありがとうございます。<br>
      {{.Name}}さんの住まい探しを全力でサポートさせていただきます。
    </p>

    <div style="background: #f5f5f7; border-radius: 16px; padding: 24px; margin: 24px 0;">
      <p style="font-size: 12px; font-weight: 600; color: #6e6e73; text-transform: uppercase; letter-spacing: 1px; margin: 0 0 16px 0;">
        ご登録いただいた内容
      </p>
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73; width: 100px;">お名前</td>
          <td style="padding: 8px 0; font-size: 14px; font-weight: 600;">{{dash .Name}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73;">生年月日</td>
          <td style="padding: 8px 0; font-size: 14px;">{{.Birth}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73;">家族構成</td>
          <td style="padding: 8px 0; font-size: 14px;">{{dash .Family}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73;">物件種別</td>
          <td style="padding: 8px 0; font-size: 14px;">{{dash .PropertyType}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73;">希望エリア</td>
          <td style="padding: 8px 0; font-size: 14px;">{{dash .Area}}</td>
        </tr>
        <tr>
          <td style="padding: 8px 0; font-size: 13px; color: #6e6e73;">ご予算</td>
          <td style="padding: 8px 0; font-size: 14px;">{{dash .Budget}}</td>
        </tr>
      </table>
    </div>

    <div style="margin: 28px 0;">
      <p style="font-size: 14px; font-weight: 700; color: #1d1d1f; margin: 0 0 16px 0;">
        📋 MuchiNaviの使い方
      </p>
      <table style="width: 100%; border-collapse: collapse;">
        <tr>
          <td style="padding: 10px 12px 10px 0; vertical-align: top;">
            <div style="width: 28px; height: 28px; background: #4a90d9; border-radius: 50%; color: white; font-size: 13px; font-weight: 700; text-align: center; line-height: 28px;">1</div>
          </td>
          <td style="padding: 10px 0; font-size: 14px; line-height: 1.6;">
            <strong>AIアシスタントに相談</strong><br>
            <span style="color: #6e6e73; font-size: 13px;">住宅ローンや物件選びなど、何でも気軽にチャットで質問できます</span>
          </td>
        </tr>
        <tr>
          <td style="padding: 10px 12px 10px 0; vertical-align: top;">
            <div style="width: 28px; height: 28px; background: #4a90d9; border-radius: 50%; color: white; font-size: 13px; font-weight: 700; text-align: center; line-height: 28px;">2</div>
          </td>
          <td style="padding: 10px 0; font-size: 14px; line-height: 1.6;">
            <strong>個人チャットで直接やり取り</strong><br>
            <span style="color: #6e6e73; font-size: 13px;">AIチャットだけでは解決しないことは、アプリ内の個人チャットで岡本と直接やり取りできます</span>
          </td>
        </tr>
        <tr>
          <td style="padding: 10px 12px 10px 0; vertical-align: top;">
            <div style="width: 28px; height: 28px; background: #4a90d9; border-radius: 50%; color: white; font-size: 13px; font-weight: 700; text-align: center; line-height: 28px;">3</div>
          </td>
          <td style="padding: 10px 0; font-size: 14px; line-height: 1.6;">
            <strong>もっと詳しく相談したい時は</strong><br>
            <span style="color: #6e6e73; font-size: 13px;">オンライン面談でじっくりお話しすることもできます。ご都合に合わせてご予約ください</span>
          </td>
        </tr>
      </table>
    </div>

    <div style="margin: 28px 0;">
      <p style="font-size: 14px; font-weight: 700; color: #1d1d1f; margin: 0 0 12px 0;">
        📖 {{.Name}}さんにおすすめの記事
      </p>
      <table style="width: 100%; border-collapse: collapse;">
        {{range .Articles}}
        <tr>
          <td style="padding: 0 0 10px 0;">
            <a href="{{.URL}}" style="display: block; padding: 14px 18px; background: #f0f7ff; border-radius: 12px; text-decoration: none; color: #1d1d1f; border: 1px solid #e5e5ea;">
              <span style="font-size: 12px; color: #0071e3; font-weight: 600; text-transform: uppercase; letter-spacing: 1px;">おすすめ記事</span><br>
              <span style="font-size: 14px; font-weight: 600; line-height: 1.5;">{{.Title}}</span>
            </a>
          </td>
        </tr>
        {{end}}
      </table>
    </div>

    <div style="text-align: center; margin: 32px 0 24px;">
      <p style="font-size: 14px; color: #6e6e73; margin: 0 0 16px 0;">
        すぐにお話ししたい方はこちら
      </p>
      <a href="{{.BookingURL}}" style="display: inline-block; padding: 16px 40px; background: #4a90d9; color: white; border-radius: 980px; text-decoration: none; font-size: 15px; font-weight: 600;">
        📅 オンライン面談を予約する
      </a>
    </div>
  </div>

  <div style="border-top: 1px solid #e5e5ea; padding: 24px 28px; text-align: center;">
    <p style="font-size: 13px; font-weight: 600; color: #1d1d1f; margin: 0 0 4px 0;">
      岡本 岳大（おかもと たけひろ）
    </p>
    <p style="font-size: 12px; color: #6e6e73; margin: 0 0 4px 0;">
      株式会社TERASS｜住宅購入専門エージェント
    </p>
    <p style="font-size: 12px; color: #aeaeb2; margin: 0 0 12px 0;">
      ノルマなし・会社の規則に縛られない「本当のお客様ファースト」
    </p>
    <a href="{{.BlogURL}}" style="font-size: 12px; color: #4a90d9; text-decoration: none;">
      むちのちブログ →
    </a>
    <div style="margin-top: 20px; padding-top: 16px; border-top: 1px solid #f0f0f0;">
      <a href="{{.AppURL}}?t={{.Token}}&withdraw=true" style="font-size: 11px; color: #aeaeb2; text-decoration: none;">
        退会をご希望の方はこちら
      </a>
    </div>
  </div>
</div>
`))

var leadAlertTmpl = template.Must(template.New("leadAlert").Funcs(templateFuncs).Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Hiragino Kaku Gothic ProN', sans-serif; max-width: 520px; margin: 0 auto; background: #ffffff;">
  <div style="background: linear-gradient(135deg, #34c759, #30b050); padding: 28px 32px; border-radius: 0 0 16px 16px;">
    <h2 style="color: white; font-size: 18px; font-weight: 700; margin: 0;">
      🔔 新規お客様が登録しました
    </h2>
    <p style="color: rgba(255,255,255,0.8); font-size: 13px; margin: 6px 0 0 0;">
      {{.RegisteredAt}}
    </p>
  </div>

  <div style="padding: 28px;">
    <table style="width: 100%; border-collapse: collapse; background: #f5f5f7; border-radius: 12px; overflow: hidden;">
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; width: 110px; font-size: 13px;">お名前</td>
        <td style="padding: 14px 16px; font-size: 15px; font-weight: 700;">{{dash .Name}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">家族構成</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{dash .Family}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">世帯年収</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{dash .HouseholdIncome}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">物件種別</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{dash .PropertyType}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">登録目的</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{dash .Purpose}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">希望エリア</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{dash .Area}}</td>
      </tr>
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">予算</td>
        <td style="padding: 14px 16px; font-size: 14px; font-weight: 600; color: #0071e3;">{{dash .Budget}}</td>
      </tr>
      {{if .SearchReason}}
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">探索理由</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{.SearchReason}}</td>
      </tr>
      {{end}}
      {{if .FreeComment}}
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">コメント</td>
        <td style="padding: 14px 16px; font-size: 14px;">{{.FreeComment}}</td>
      </tr>
      {{end}}
      <tr style="border-bottom: 1px solid #e5e5ea;">
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">📧 メール</td>
        <td style="padding: 14px 16px; font-size: 14px;"><a href="mailto:{{.Email}}" style="color: #0071e3; text-decoration: none;">{{dash .Email}}</a></td>
      </tr>
      <tr>
        <td style="padding: 14px 16px; font-weight: 600; color: #6e6e73; font-size: 13px;">📱 電話</td>
        <td style="padding: 14px 16px; font-size: 14px;"><a href="tel:{{.Phone}}" style="color: #0071e3; text-decoration: none;">{{dash .Phone}}</a></td>
      </tr>
    </table>

    <p style="font-size: 12px; color: #aeaeb2; text-align: center; margin-top: 16px;">
      MuchiNavi Web版からの自動通知
    </p>
  </div>
</div>
`))

var newMessageTmpl = template.Must(template.New("newMessage").Funcs(templateFuncs).Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 500px; margin: 0 auto; padding: 24px;">
  <div style="background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: #fff; padding: 20px 24px; border-radius: 16px 16px 0 0;">
    <h2 style="margin: 0; font-size: 18px;">💬 新しいメッセージ</h2>
  </div>
  <div style="background: #fff; border: 1px solid #e5e5ea; border-top: none; padding: 24px; border-radius: 0 0 16px 16px;">
    <p style="margin: 0 0 6px; font-size: 13px; color: #86868b;">送信者</p>
    <p style="margin: 0 0 16px; font-size: 16px; font-weight: 600; color: #1d1d1f;">{{.Name}}さん</p>
    <p style="margin: 0 0 6px; font-size: 13px; color: #86868b;">メッセージ内容</p>
    <div style="background: #f5f5f7; border-radius: 12px; padding: 16px; margin: 0 0 20px;">
      <p style="margin: 0; font-size: 15px; color: #1d1d1f; line-height: 1.6; white-space: pre-wrap;">{{.Preview}}</p>
    </div>
    <a href="{{.AppURL}}/admin.html"
       style="display: inline-block; background: #0071e3; color: #fff; padding: 12px 24px; border-radius: 10px; text-decoration: none; font-weight: 600; font-size: 14px;">
      管理画面で返信する →
    </a>
  </div>
</div>
`))

var agentMessageTmpl = template.Must(template.New("agentMessage").Funcs(templateFuncs).Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 500px; margin: 0 auto; padding: 24px;">
  <div style="background: linear-gradient(135deg, #34c759 0%, #30d158 100%); color: #fff; padding: 20px 24px; border-radius: 16px 16px 0 0;">
    <h2 style="margin: 0; font-size: 18px;">📩 新しいメッセージ</h2>
    <p style="margin: 8px 0 0; font-size: 13px; opacity: 0.9;">岡本岳大｜住宅購入エージェント</p>
  </div>
  <div style="background: #fff; border: 1px solid #e5e5ea; border-top: none; padding: 24px; border-radius: 0 0 16px 16px;">
    <p style="margin: 0 0 4px; font-size: 13px; color: #86868b;">{{.Name}}さんへ</p>
    <div style="background: #f0f7ff; border-radius: 12px; padding: 16px; margin: 12px 0 20px;">
      <p style="margin: 0; font-size: 15px; color: #1d1d1f; line-height: 1.6; white-space: pre-wrap;">{{.Preview}}</p>
    </div>
    <a href="{{.AppURL}}"
       style="display: inline-block; background: #34c759; color: #fff; padding: 12px 24px; border-radius: 10px; text-decoration: none; font-weight: 600; font-size: 14px;">
      MuchiNaviで確認する →
    </a>
    <p style="margin: 16px 0 0; font-size: 11px; color: #86868b; line-height: 1.5;">
      ※ このメールはMuchiNaviからの自動通知です。返信はMuchiNaviアプリ内のチャットからお願いします。
    </p>
  </div>
</div>
`))

var announcementTmpl = template.Must(template.New("announcement").Funcs(templateFuncs).Parse(`
<div style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; max-width: 500px; margin: 0 auto; padding: 24px;">
  <div style="background: linear-gradient(135deg, #0071e3 0%, #0055cc 100%); color: #fff; padding: 20px 24px; border-radius: 16px 16px 0 0;">
    <h2 style="margin: 0; font-size: 18px;">📢 お知らせ</h2>
    <p style="margin: 8px 0 0; font-size: 13px; opacity: 0.9;">岡本岳大｜住宅購入エージェント</p>
  </div>
  <div style="background: #fff; border: 1px solid #e5e5ea; border-top: none; padding: 24px; border-radius: 0 0 16px 16px;">
    <p style="margin: 0 0 4px; font-size: 13px; color: #86868b;">{{.Name}}さんへ</p>
    <div style="background: #f0f7ff; border-radius: 12px; padding: 16px; margin: 12px 0 20px;">
      <p style="margin: 0; font-size: 15px; color: #1d1d1f; line-height: 1.6; white-space: pre-wrap;">{{.Preview}}</p>
    </div>
    <a href="{{.AppURL}}" style="display: inline-block; background: #0071e3; color: #fff; padding: 12px 24px; border-radius: 10px; text-decoration: none; font-weight: 600; font-size: 14px;">
      MuchiNaviで確認する →
    </a>
  </div>
</div>
`))

type welcomeData struct {
	Name         string
	Birth        string
	Family       string
	PropertyType string
	Area         string
	Budget       string
	Articles     []events.Article
	Token        string
	AppURL       string
	BookingURL   string
	BlogURL      string
}

type leadAlertData struct {
	RegisteredAt    string
	Name            string
	Family          string
	HouseholdIncome string
	PropertyType    string
	Purpose         string
	Area            string
	Budget          string
	SearchReason    string
	FreeComment     string
	Email           string
	Phone           string
}

type messageData struct {
	Name    string
	Preview string
	AppURL  string
}

// RenderWelcome builds the registration confirmation for the customer.
func RenderWelcome(p events.CustomerEventPayload, appURL, bookingURL, blogURL string) (string, error) {
	name := p.Name
	if name == "" {
		name = "お客様"
	}
	birth := "-"
	if p.BirthYear != "" && p.BirthMonth != "" {
		birth = fmt.Sprintf("%s年%s月", p.BirthYear, p.BirthMonth)
	}
	return render(welcomeTmpl, welcomeData{
		Name:         name,
		Birth:        birth,
		Family:       p.Family,
		PropertyType: p.PropertyType,
		Area:         p.Area,
		Budget:       p.Budget,
		Articles:     p.Articles,
		Token:        p.Token,
		AppURL:       appURL,
		BookingURL:   bookingURL,
		BlogURL:      blogURL,
	})
}

// RenderLeadAlert builds the new-registration alert for the agent.
func RenderLeadAlert(p events.CustomerEventPayload) (string, error) {
	return render(leadAlertTmpl, leadAlertData{
		RegisteredAt:    time.Now().Format("2006/01/02 15:04:05"),
		Name:            p.Name,
		Family:          p.Family,
		HouseholdIncome: p.HouseholdIncome,
		PropertyType:    p.PropertyType,
		Purpose:         p.Purpose,
		Area:            p.Area,
		Budget:          p.Budget,
		SearchReason:    p.SearchReason,
		FreeComment:     p.FreeComment,
		Email:           p.Email,
		Phone:           p.Phone,
	})
}

// RenderNewMessage builds the agent-side alert for an inbound customer
// message.
func RenderNewMessage(name, content, appURL string) (string, error) {
	if name == "" {
		name = "名前未登録"
	}
	return render(newMessageTmpl, messageData{Name: name, Preview: clip(content, 200), AppURL: appURL})
}

// RenderAgentMessage builds the customer-side alert for an agent reply.
func RenderAgentMessage(name, content, appURL string) (string, error) {
	if name == "" {
		name = "お客様"
	}
	return render(agentMessageTmpl, messageData{Name: name, Preview: clip(content, 300), AppURL: appURL})
}

// RenderAnnouncement builds the broadcast notification body.
func RenderAnnouncement(name, message, appURL string) (string, error) {
	if name == "" {
		name = "お客様"
	}
	preview := message
	if r := []rune(message); len(r) > 500 {
		preview = string(r[:500]) + "..."
	}
	return render(announcementTmpl, messageData{Name: name, Preview: preview, AppURL: appURL})
}

func clip(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func render(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render mail template: %w", err)
	}
	return buf.String(), nil
}
