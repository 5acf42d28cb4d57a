// Package api is the typed HTTP client for the inscription backend. It
// builds on the session's authenticated request primitive and maps non-2xx
// replies to *common.ServerError so server messages reach the user verbatim.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"

	"github.com/google/uuid"

	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/models"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/client/session"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/common"
	"github.com/McleanServices/MiageAppInscription-sub000/internal/logging"
)

// resourcePaths maps each locally cached resource kind to its endpoint.
var resourcePaths = map[models.ResourceKind]string{
	models.ResourceProfile:       "/api/user/personal-info",
	models.ResourceDossierStatus: "/api/user/dossier-status",
	models.ResourceFormProgress:  "/api/user/form-progress",
}

// userSections lists the dossier sections that can be fetched directly,
// outside the sync engine's three cached resources.
var userSections = map[string]struct{}{
	"personal-info":       {},
	"contact-info":        {},
	"academic-background": {},
	"experiences":         {},
}

type Client struct {
	session *session.Session
	log     logging.Logger
}

func New(s *session.Session, log logging.Logger) *Client {
	return &Client{session: s, log: log}
}

// Registration carries the sign-up form. Field names follow the backend's
// contract.
type Registration struct {
	Nom          string `json:"nom"`
	Prenom       string `json:"prenom"`
	Email        string `json:"email"`
	MotDePasse   string `json:"mot_de_passe"`
	Role         string `json:"role"`
	Type         string `json:"type"`
	CaptchaToken string `json:"captchaToken"`
}

// SignUp creates an account. Each call carries a fresh client-generated
// Idempotency-Key header so a retried submission cannot create a duplicate
// account. A 409 surfaces the server's message ("Email déjà utilisé").
func (c *Client) SignUp(ctx context.Context, reg Registration) error {
	body, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("marshal sign-up request: %w", err)
	}

	req, err := c.session.NewRequest(ctx, http.MethodPost, "/api/sign-up", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create sign-up request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.IdempotencyKeyHeaderName, uuid.NewString())

	resp, err := c.session.Send(req)
	if err != nil {
		return fmt.Errorf("sign-up request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return session.ReadServerError(resp)
	}
	return nil
}

// FetchResource fetches the server payload for one cached resource kind.
// The raw JSON body is returned unparsed; the sync engine stores it as-is.
func (c *Client) FetchResource(ctx context.Context, kind models.ResourceKind) (json.RawMessage, error) {
	path, ok := resourcePaths[kind]
	if !ok {
		return nil, fmt.Errorf("unknown resource kind: %s", kind)
	}
	return c.getJSON(ctx, path)
}

// FetchSection fetches one dossier section (personal-info, contact-info,
// academic-background, experiences) as raw JSON.
func (c *Client) FetchSection(ctx context.Context, section string) (json.RawMessage, error) {
	if _, ok := userSections[section]; !ok {
		return nil, fmt.Errorf("unknown dossier section: %s", section)
	}
	return c.getJSON(ctx, "/api/user/"+section)
}

func (c *Client) getJSON(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := c.session.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request %s: %w", path, err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, session.ReadServerError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", path, err)
	}
	return json.RawMessage(body), nil
}

// ListDocuments returns every stored document of the current user.
func (c *Client) ListDocuments(ctx context.Context) ([]models.StoredDocument, error) {
	req, err := c.session.NewRequest(ctx, http.MethodGet, "/api/user/documents", nil)
	if err != nil {
		return nil, fmt.Errorf("create documents request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, session.ReadServerError(resp)
	}

	var docs []models.StoredDocument
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decode documents response: %w", err)
	}
	return docs, nil
}

// UploadDocument submits a picked file into a slot as multipart form data
// with fields document (binary), document_type and commentaire. On 200/201
// the server-assigned document id is returned.
func (c *Client) UploadDocument(ctx context.Context, file models.PickedFile, slot models.Slot, commentaire string) (int64, error) {
	src, err := os.Open(file.URI)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", file.URI, err)
	}
	defer src.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("document", file.Name)
	if err != nil {
		return 0, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return 0, fmt.Errorf("read %s: %w", file.URI, err)
	}
	if err := mw.WriteField("document_type", string(slot)); err != nil {
		return 0, fmt.Errorf("write document_type field: %w", err)
	}
	if err := mw.WriteField("commentaire", commentaire); err != nil {
		return 0, fmt.Errorf("write commentaire field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := c.session.NewRequest(ctx, http.MethodPost, "/api/user/documents/upload", &buf)
	if err != nil {
		return 0, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.session.Do(req)
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", file.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, session.ReadServerError(resp)
	}

	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("decode upload response: %w", err)
	}

	c.log.Info(ctx, "document uploaded", "slot", slot, "file", file.Name, "id", result.ID)
	return result.ID, nil
}

// DownloadDocument streams the binary content of a stored document into w.
func (c *Client) DownloadDocument(ctx context.Context, id int64, w io.Writer) error {
	path := fmt.Sprintf("/api/user/documents/%d/download", id)
	req, err := c.session.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return fmt.Errorf("create download request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("download document %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return session.ReadServerError(resp)
	}

	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read document %d stream: %w", id, err)
	}
	return nil
}

// DeleteDocument removes a stored document. The caller is responsible for
// refetching the document list afterwards.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/user/documents/%d", id)
	req, err := c.session.NewRequest(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return fmt.Errorf("create delete request: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return session.ReadServerError(resp)
	}

	c.log.Info(ctx, "document deleted", "id", id)
	return nil
}
