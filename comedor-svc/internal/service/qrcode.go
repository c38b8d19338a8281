package service

import (
	"encoding/json"

	"github.com/skip2/go-qrcode"

	"comedor-backend/comedor-svc/internal/domain"
)

type QRGenerator interface {
	Generate(payload domain.QRPayload) ([]byte, error)
}

// DefaultQRGenerator renders the scan payload as a 256px PNG.
type DefaultQRGenerator struct{}

func (g DefaultQRGenerator) Generate(payload domain.QRPayload) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(string(data), qrcode.Medium, 256)
}
