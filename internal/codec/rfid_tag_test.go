package codec

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRFIDTag(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	tag := GenerateRFIDTag("DRC-MKT-0042", rng)
	assert.True(t, strings.HasPrefix(tag, "RFID-MKT0042-"))
	assert.True(t, ValidateRFIDTag(tag), "generated tag %q must validate", tag)

	// suffixes differ between calls
	other := GenerateRFIDTag("DRC-MKT-0042", rng)
	assert.NotEqual(t, tag, other)
}

func TestValidateRFIDTag(t *testing.T) {
	assert.True(t, ValidateRFIDTag("RFID-MKT0042-A1B2C3D4"))
	assert.True(t, ValidateRFIDTag("RFID-WU0007-00FFAA11"))

	assert.False(t, ValidateRFIDTag(""))
	assert.False(t, ValidateRFIDTag("RFID-"))
	assert.False(t, ValidateRFIDTag("MKT0042-A1B2C3D4"))
	assert.False(t, ValidateRFIDTag("rfid-mkt0042-a1b2c3d4"))
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("DRC-MKT-0001")
	assert.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestBatchQR(t *testing.T) {
	ids, err := GenerateIDRange("WU", 1, 3)
	assert.NoError(t, err)

	images, err := BatchQR(ids)
	assert.NoError(t, err)
	assert.Len(t, images, 3)
	assert.Contains(t, images, "DRC-WU-0001")
	assert.Contains(t, images, "DRC-WU-0003")
}
