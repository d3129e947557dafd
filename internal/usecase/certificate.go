package usecase

import (
	"context"
	"fmt"
	"os"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/proofmark/proofmark/internal/config"
)

// Certificate is the shareable proof artifact for a verified hash: the
// verification result plus a QR code pointing back at the public
// verification endpoint.
type Certificate struct {
	Result    VerificationResult
	VerifyURL string
	// QRCode is a PNG of VerifyURL.
	QRCode []byte
}

func (u Usecase) GetCertificate(ctx context.Context, contentHash string) (Certificate, error) {
	res, err := u.VerifyHash(ctx, contentHash)
	if err != nil {
		return Certificate{}, err
	}

	verifyURL := fmt.Sprintf("%s/api/v1/verify/%s", os.Getenv(config.ENV_KEY_APP_URL), res.ContentHash)
	png, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return Certificate{}, fmt.Errorf("certificate: encoding qr code: %w", err)
	}

	return Certificate{
		Result:    res,
		VerifyURL: verifyURL,
		QRCode:    png,
	}, nil
}
