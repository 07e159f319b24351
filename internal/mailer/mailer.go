package mailer

import (
	"context"
	_ "embed"
	"fmt"
	"regexp"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	gomail "gopkg.in/gomail.v2"
	"gopkg.in/yaml.v3"

	"github.com/asi-incubator/intake-cli/internal/config"
	"github.com/asi-incubator/intake-cli/internal/model"
	"github.com/asi-incubator/intake-cli/internal/store"
)

//go:embed templates.yaml
var templatesYAML []byte

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// templates holds the notification subject and bodies.
type templates struct {
	Subject string `yaml:"subject"`
	Text    string `yaml:"text"`
	HTML    string `yaml:"html"`
}

// Mailer sends analysis result notifications over SMTP.
type Mailer struct {
	dialer   *gomail.Dialer
	from     string
	smtpCfg  config.SMTPConfig
	emailCfg config.EmailConfig
	tmpl     templates
	limiter  *rate.Limiter
}

// New creates a Mailer from configuration.
func New(smtpCfg config.SMTPConfig, emailCfg config.EmailConfig) (*Mailer, error) {
	var tmpl templates
	if err := yaml.Unmarshal(templatesYAML, &tmpl); err != nil {
		return nil, eris.Wrap(err, "mailer: parse templates")
	}

	interval := time.Duration(emailCfg.SendIntervalSecs) * time.Second
	if interval <= 0 {
		interval = 2 * time.Second
	}

	return &Mailer{
		dialer:   gomail.NewDialer(smtpCfg.Host, smtpCfg.Port, smtpCfg.Username, smtpCfg.Password),
		from:     smtpCfg.From,
		smtpCfg:  smtpCfg,
		emailCfg: emailCfg,
		tmpl:     tmpl,
		limiter:  rate.NewLimiter(rate.Every(interval), 1),
	}, nil
}

// Send builds and delivers the notification for one analyzed candidature.
func (m *Mailer) Send(ctx context.Context, c *model.Candidature, res *model.AnalysisResult) error {
	if !emailRe.MatchString(c.ContactEmail) {
		return eris.Errorf("mailer: invalid recipient address %q", c.ContactEmail)
	}

	if err := m.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "mailer: rate limit wait")
	}

	vars := BuildVariables(c, res, m.emailCfg)

	msg := gomail.NewMessage()
	msg.SetHeader("From", msg.FormatAddress(m.from, "Algerian Startup Initiative"))
	msg.SetHeader("To", msg.FormatAddress(c.ContactEmail, c.ContactName))
	msg.SetHeader("Subject", Render(m.tmpl.Subject, vars))
	msg.SetHeader("Message-ID", fmt.Sprintf("<ASI-%s.%d@asi.incubateur.dz>", c.ID, time.Now().UnixNano()))
	msg.SetBody("text/plain", Render(m.tmpl.Text, vars))
	msg.AddAlternative("text/html", Render(m.tmpl.HTML, vars))

	if m.smtpCfg.DryRun {
		zap.L().Info("mailer: dry run, not sending",
			zap.String("candidature_id", c.ID),
			zap.String("recipient", c.ContactEmail))
		return nil
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		return eris.Wrapf(err, "mailer: send to %s", c.ContactEmail)
	}

	zap.L().Info("mailer: notification sent",
		zap.String("candidature_id", c.ID),
		zap.String("recipient", c.ContactEmail),
		zap.Bool("eligible", res.IsEligible))
	return nil
}

// ProcessQueue drains pending notifications from the store. It returns
// the number of emails delivered; individual failures are recorded on
// the queue entry and do not stop the drain.
func (m *Mailer) ProcessQueue(ctx context.Context, st store.Store, limit int) (int, error) {
	pending, err := st.PendingEmails(ctx, limit)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, email := range pending {
		if err := ctx.Err(); err != nil {
			return sent, eris.Wrap(err, "mailer: queue drain interrupted")
		}

		cand, err := st.GetCandidature(ctx, email.CandidatureID)
		if err != nil {
			if ferr := st.FailEmail(ctx, email.ID, err.Error()); ferr != nil {
				return sent, ferr
			}
			continue
		}
		res, err := st.GetAnalysis(ctx, email.CandidatureID)
		if err != nil {
			if ferr := st.FailEmail(ctx, email.ID, err.Error()); ferr != nil {
				return sent, ferr
			}
			continue
		}

		if err := m.Send(ctx, cand, res); err != nil {
			zap.L().Warn("mailer: send failed",
				zap.String("email_id", email.ID),
				zap.Error(err))
			if ferr := st.FailEmail(ctx, email.ID, err.Error()); ferr != nil {
				return sent, ferr
			}
			continue
		}

		if err := st.CompleteEmail(ctx, email.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}
