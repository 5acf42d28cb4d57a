package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
)

func TestPolicyFor_KnownAndUnknownSlots(t *testing.T) {
	for _, slot := range Slots() {
		p, ok := PolicyFor(slot)
		require.True(t, ok, "slot %s must have a policy", slot)
		assert.Equal(t, int64(MaxDocumentSize), p.MaxSize)
		assert.NotEmpty(t, p.MimeTypes)
	}

	_, ok := PolicyFor(Slot("passeport"))
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	policy, ok := PolicyFor(SlotCV)
	require.True(t, ok)

	tests := []struct {
		name    string
		file    PickedFile
		wantErr bool
	}{
		{
			name: "pdf under the cap",
			file: PickedFile{Name: "cv.pdf", MimeType: "application/pdf", SizeBytes: 1_500_000},
		},
		{
			name: "exactly at the cap",
			file: PickedFile{Name: "cv.pdf", MimeType: "application/pdf", SizeBytes: MaxDocumentSize},
		},
		{
			name:    "one byte over the cap",
			file:    PickedFile{Name: "cv.pdf", MimeType: "application/pdf", SizeBytes: MaxDocumentSize + 1},
			wantErr: true,
		},
		{
			name: "jpeg allowed",
			file: PickedFile{Name: "photo.jpg", MimeType: "image/jpeg", SizeBytes: 100},
		},
		{
			name: "png allowed",
			file: PickedFile{Name: "photo.png", MimeType: "image/png", SizeBytes: 100},
		},
		{
			name:    "word document rejected",
			file:    PickedFile{Name: "cv.docx", MimeType: "application/msword", SizeBytes: 100},
			wantErr: true,
		},
		{
			name:    "empty mime rejected",
			file:    PickedFile{Name: "cv", MimeType: "", SizeBytes: 100},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := policy.Validate(tc.file)
			if tc.wantErr {
				var valErr *common.ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.NotEmpty(t, valErr.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestTaskTerminal(t *testing.T) {
	assert.True(t, UploadTask{State: TaskSuccess}.Terminal())
	assert.True(t, UploadTask{State: TaskFailed}.Terminal())
	assert.False(t, UploadTask{State: TaskIdle}.Terminal())
	assert.False(t, UploadTask{State: TaskUploading}.Terminal())
}
