// Package models defines client-side data models for the inscription dossier:
// document slots with their validation policies, picked files, upload task
// states, server-confirmed documents, and local cache entries.
package models

import (
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
)

// Slot is a logical document category of the dossier. The set of slots and
// their policies is static configuration, never mutated at runtime.
type Slot string

const (
	SlotCV               Slot = "cv"
	SlotNotes            Slot = "notes"
	SlotJustificatifs    Slot = "justificatifs"
	SlotLettreMotivation Slot = "lettre_motivation"
	SlotDiplome          Slot = "diplome"
	SlotIdentite         Slot = "identite"
	SlotPhoto            Slot = "photo"
)

// MaxDocumentSize is the per-file upload cap shared by every slot.
const MaxDocumentSize = 2 * units.MB

// SlotPolicy describes what a slot accepts.
type SlotPolicy struct {
	MimeTypes []string
	MaxSize   int64
}

var documentMimeTypes = []string{"application/pdf", "image/jpeg", "image/jpg", "image/png"}

var slotPolicies = map[Slot]SlotPolicy{
	SlotCV:               {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotNotes:            {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotJustificatifs:    {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotLettreMotivation: {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotDiplome:          {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotIdentite:         {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
	SlotPhoto:            {MimeTypes: documentMimeTypes, MaxSize: MaxDocumentSize},
}

// Slots returns every known slot in a stable order.
func Slots() []Slot {
	return []Slot{
		SlotCV, SlotNotes, SlotJustificatifs, SlotLettreMotivation,
		SlotDiplome, SlotIdentite, SlotPhoto,
	}
}

// PolicyFor returns the validation policy of a slot. The second return value
// is false for unknown slots.
func PolicyFor(slot Slot) (SlotPolicy, bool) {
	p, ok := slotPolicies[slot]
	return p, ok
}

// PickedFile is the result of a file selection: enough information to
// validate against a slot policy and to build the multipart upload.
type PickedFile struct {
	URI       string
	Name      string
	MimeType  string
	SizeBytes int64
}

// Validate checks f against the policy of slot, before any network call.
// Violations are reported as *common.ValidationError.
func (p SlotPolicy) Validate(f PickedFile) error {
	if f.SizeBytes > p.MaxSize {
		return &common.ValidationError{
			Reason: fmt.Sprintf("le fichier %s dépasse la taille maximale autorisée (%s)",
				f.Name, units.HumanSize(float64(p.MaxSize))),
		}
	}
	for _, m := range p.MimeTypes {
		if f.MimeType == m {
			return nil
		}
	}
	return &common.ValidationError{
		Reason: fmt.Sprintf("type de fichier non autorisé: %s (formats acceptés: pdf, jpeg, png)", f.MimeType),
	}
}

// StoredDocument is a server-confirmed record of a successfully uploaded file.
type StoredDocument struct {
	ID         int64     `json:"id"`
	Type       Slot      `json:"type_document"`
	FileName   string    `json:"nom_fichier"`
	Commentary string    `json:"commentaire,omitempty"`
	CreatedAt  time.Time `json:"date_creation"`
}
