package resend

import (
	"bytes"
	"context"
	"html/template"

	"github.com/resend/resend-go/v2"
)

type ResendNotifier struct {
	ApiKey string
	From   string
	Email  string
}

const htmlTemplate = `
<p>Your {{.Streak}} day streak ends today ({{.Day}}) unless you check in.</p>
<p>Complete any habit before midnight to keep it going.</p>
`

var emailTemplate = template.Must(template.New("email").Parse(htmlTemplate))

func (r *ResendNotifier) SendNudge(ctx context.Context, streak int, day string) error {
	data := struct {
		Streak int
		Day    string
	}{
		Streak: streak,
		Day:    day,
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return err
	}

	client := resend.NewClient(r.ApiKey)
	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.Email},
		Subject: "Your streak is about to end",
		Html:    buf.String(),
	}

	_, err := client.Emails.SendWithContext(ctx, params)
	return err
}
