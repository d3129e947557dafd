package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/proofmark/proofmark/internal/config"
)

type Email struct {
	From    string
	To      []string
	Subject string
	Body    string
}

type MailProvider interface {
	SendEmail(context.Context, Email) error
}

// notifyAnchorOutcome mails the owner when their anchor settles.
// Best-effort: a mail failure never affects the record.
func (u Usecase) notifyAnchorOutcome(ctx context.Context, a Asset) {
	if u.mailProvider == nil {
		return
	}

	owner := a.Owner
	if owner == nil {
		o, err := u.repo.GetUserByID(ctx, a.OwnerID)
		if err != nil {
			slog.Error("anchor notification: loading owner", "asset_id", a.ID, "err", err)
			return
		}
		owner = &o
	}
	if owner.Email == "" {
		return
	}

	var subject, body string
	switch a.ChainStatus {
	case ChainStatusConfirmed:
		subject = fmt.Sprintf("%q is anchored on-chain", a.Title)
		body = fmt.Sprintf(
			"<p>Your registration %q is now confirmed on the ledger.</p>"+
				"<p>Transaction: %s<br/>Block: %d</p>",
			a.Title, deref(a.ChainTxRef), derefInt(a.ChainBlockRef))
	case ChainStatusFailed:
		subject = fmt.Sprintf("Anchoring %q failed", a.Title)
		body = fmt.Sprintf(
			"<p>Anchoring your registration %q did not complete: %s.</p>"+
				"<p>The off-chain record remains valid. You can retry anchoring at any time.</p>",
			a.Title, a.ChainError)
	default:
		return
	}

	err := u.mailProvider.SendEmail(ctx, Email{
		From:    os.Getenv(config.ENV_KEY_SMTP_FROM),
		To:      []string{owner.Email},
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		slog.Error("anchor notification: sending mail", "asset_id", a.ID, "err", err)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(n *int64) int64 {
	if n == nil {
		return 0
	}
	return *n
}
