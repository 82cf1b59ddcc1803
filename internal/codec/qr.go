package codec

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// qrImageSize matches the 256px codes printed on container lids and ID cards.
const qrImageSize = 256

// QRCodePNG renders the payload string as a PNG with high error correction,
// the level needed for codes that survive dishwashers and pocket lint.
func QRCodePNG(data string) ([]byte, error) {
	png, err := qrcode.Encode(data, qrcode.High, qrImageSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

// QRCodeDataURL renders the payload as a data: URL for embedding directly in
// dashboard markup.
func QRCodeDataURL(data string) (string, error) {
	png, err := QRCodePNG(data)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// ContainerQR encodes the container's envelope and renders it as a PNG.
func ContainerQR(containerID string) ([]byte, error) {
	payload, err := EncodePayload(PayloadKindContainer, containerID)
	if err != nil {
		return nil, err
	}
	return QRCodePNG(payload)
}

// UserQR encodes the user's envelope and renders it as a PNG.
func UserQR(netID string) ([]byte, error) {
	payload, err := EncodePayload(PayloadKindUser, netID)
	if err != nil {
		return nil, err
	}
	return QRCodePNG(payload)
}

// BatchQR renders codes for a batch of container identifiers, keyed by the
// canonical identifier string. Used by bulk registration sheets.
func BatchQR(ids []ContainerID) (map[string][]byte, error) {
	out := make(map[string][]byte, len(ids))
	for _, id := range ids {
		png, err := ContainerQR(id.String())
		if err != nil {
			return nil, fmt.Errorf("batch qr for %s: %w", id, err)
		}
		out[id.String()] = png
	}
	return out, nil
}
