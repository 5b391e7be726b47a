package testserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rpggio/pyeditor/internal/domain/account"
	"github.com/rpggio/pyeditor/internal/domain/workspace"
	"github.com/rpggio/pyeditor/internal/transport"
)

type userData struct {
	User account.User `json:"user"`
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var body account.RegisterRequest
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}
	if body.Username == "" || body.Email == "" || body.Password == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Tüm alanları doldurun")
		return
	}

	b.mu.Lock()
	for _, u := range b.users {
		if u.Username == body.Username {
			b.mu.Unlock()
			transport.WriteFailure(w, http.StatusBadRequest, "Bu kullanıcı adı zaten alınmış")
			return
		}
		if u.Email == body.Email {
			b.mu.Unlock()
			transport.WriteFailure(w, http.StatusBadRequest, "Bu e-posta adresi zaten kayıtlı")
			return
		}
	}
	u := b.addUserLocked(body.Username, body.Email, body.Password)
	token := b.startSessionLocked(u.ID)
	b.mu.Unlock()

	transport.SetSessionCookie(w, token)
	transport.WriteData(w, userData{User: u.User})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}
	if body.Username == "" || body.Password == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Kullanıcı adı ve şifre gerekli")
		return
	}

	b.mu.Lock()
	var found *user
	for _, u := range b.users {
		if u.Username == body.Username {
			found = u
			break
		}
	}
	if found == nil || found.passwordHash != hashPassword(body.Password) {
		b.mu.Unlock()
		transport.WriteFailure(w, http.StatusUnauthorized, "Geçersiz kullanıcı adı veya şifre")
		return
	}
	token := b.startSessionLocked(found.ID)
	b.mu.Unlock()

	transport.SetSessionCookie(w, token)
	transport.WriteData(w, userData{User: found.User})
}

func (b *Backend) startSessionLocked(userID string) string {
	token := uuid.NewString()
	b.sessions[token] = userID
	return token
}

func (b *Backend) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := transport.SessionToken(r); ok {
		b.mu.Lock()
		delete(b.sessions, token)
		b.mu.Unlock()
	}
	transport.ClearSessionCookie(w)
	transport.WriteData(w, nil)
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	u, ok := b.users[userID(r)]
	b.mu.Unlock()
	if !ok {
		transport.WriteFailure(w, http.StatusNotFound, "Kullanıcı bulunamadı")
		return
	}
	transport.WriteData(w, userData{User: u.User})
}

func (b *Backend) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	b.mu.Lock()
	kept := b.files[:0]
	for _, f := range b.files {
		if f.userID != uid {
			kept = append(kept, f)
		}
	}
	b.files = kept
	delete(b.users, uid)
	for token, owner := range b.sessions {
		if owner == uid {
			delete(b.sessions, token)
		}
	}
	b.mu.Unlock()

	transport.ClearSessionCookie(w)
	transport.WriteMessage(w, nil, "Hesabınız ve tüm verileriniz başarıyla silindi")
}

type filesData struct {
	Files []workspace.FileRecord `json:"files"`
}

func (b *Backend) handleListFiles(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	projectID := r.URL.Query().Get("project_id")

	b.mu.Lock()
	defer b.mu.Unlock()

	files := []workspace.FileRecord{}
	if projectID == "" {
		for _, f := range b.files {
			if f.userID == uid {
				files = append(files, f.FileRecord)
			}
		}
		transport.WriteData(w, filesData{Files: files})
		return
	}

	proj := b.findLocked(uid, projectID)
	if proj == nil || proj.Kind != workspace.KindProject {
		transport.WriteFailure(w, http.StatusNotFound, "Proje bulunamadı")
		return
	}
	files = append(files, proj.FileRecord)
	for _, f := range b.files {
		if f.userID == uid && f.ProjectID == projectID && f.ID != projectID {
			files = append(files, f.FileRecord)
		}
	}
	transport.WriteData(w, filesData{Files: files})
}

func (b *Backend) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name     string             `json:"name"`
		Type     workspace.Kind     `json:"type"`
		Content  string             `json:"content"`
		ParentID string             `json:"parent_id"`
		Language workspace.Language `json:"language"`
	}
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}
	if body.Name == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Dosya adı gerekli")
		return
	}
	if body.Type == "" {
		body.Type = workspace.KindFile
	}
	if body.Language == "" {
		body.Language = workspace.LanguagePython
	}

	uid := userID(r)
	b.mu.Lock()
	defer b.mu.Unlock()

	path := body.Name
	projectID := ""
	if body.ParentID != "" {
		if parent := b.findLocked(uid, body.ParentID); parent != nil {
			if parent.ParentID != "" {
				path = parent.Path + "/" + body.Name
			} else {
				path = parent.Name + "/" + body.Name
			}
			switch {
			case parent.Kind == workspace.KindProject:
				projectID = parent.ID
			case parent.ProjectID != "":
				projectID = parent.ProjectID
			}
		}
	}

	now := b.stamp()
	rec := workspace.FileRecord{
		ID:        uuid.NewString(),
		Name:      body.Name,
		Kind:      body.Type,
		ParentID:  body.ParentID,
		ProjectID: projectID,
		Path:      path,
		Content:   body.Content,
		Language:  body.Language,
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.insertLocked(uid, rec)
	transport.WriteData(w, map[string]workspace.FileRecord{"file": rec})
}

func (b *Backend) handleGetContent(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	f := b.findLocked(userID(r), chi.URLParam(r, "id"))
	var rec workspace.FileRecord
	if f != nil {
		rec = f.FileRecord
	}
	b.mu.Unlock()

	if f == nil {
		transport.WriteFailure(w, http.StatusNotFound, "Dosya bulunamadı")
		return
	}
	if !rec.IsFile() {
		transport.WriteFailure(w, http.StatusBadRequest, "Klasörün içeriği okunamaz")
		return
	}
	transport.WriteData(w, map[string]string{"content": rec.Content})
}

func (b *Backend) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Content string `json:"content"`
	}
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.findLocked(userID(r), chi.URLParam(r, "id"))
	if f == nil {
		transport.WriteFailure(w, http.StatusNotFound, "Dosya bulunamadı")
		return
	}
	f.Content = body.Content
	f.UpdatedAt = b.stamp()
	transport.WriteData(w, nil)
}

func (b *Backend) handleDelete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := chi.URLParam(r, "id")

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.findLocked(uid, id) == nil {
		transport.WriteFailure(w, http.StatusNotFound, "Dosya bulunamadı")
		return
	}
	b.removeLocked(uid, id)
	transport.WriteData(w, nil)
}

func (b *Backend) handleRename(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := transport.DecodeBody(r, &body); err != nil || body.Name == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Yeni dosya adı gerekli")
		return
	}

	uid := userID(r)
	b.mu.Lock()
	defer b.mu.Unlock()
	f := b.findLocked(uid, chi.URLParam(r, "id"))
	if f == nil {
		transport.WriteFailure(w, http.StatusNotFound, "Dosya bulunamadı")
		return
	}
	f.Path = body.Name
	if f.ParentID != "" {
		if parent := b.findLocked(uid, f.ParentID); parent != nil {
			f.Path = parent.Path + "/" + body.Name
		}
	}
	f.Name = body.Name
	f.UpdatedAt = b.stamp()
	transport.WriteData(w, nil)
}

func (b *Backend) handleDownload(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	f := b.findLocked(userID(r), chi.URLParam(r, "id"))
	var rec workspace.FileRecord
	if f != nil {
		rec = f.FileRecord
	}
	b.mu.Unlock()

	if f == nil {
		transport.WriteFailure(w, http.StatusNotFound, "Dosya bulunamadı")
		return
	}
	if !rec.IsFile() {
		transport.WriteFailure(w, http.StatusBadRequest, "Klasörler indirilemez")
		return
	}
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", rec.Name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rec.Content))
}

func (b *Backend) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}
	if body.Name == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Proje adı gerekli")
		return
	}

	uid := userID(r)
	b.mu.Lock()
	now := b.stamp()
	proj := workspace.FileRecord{
		ID:        uuid.NewString(),
		Name:      body.Name,
		Kind:      workspace.KindProject,
		Path:      body.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	proj.ProjectID = proj.ID
	mainFile := workspace.FileRecord{
		ID:        uuid.NewString(),
		Name:      "main.py",
		Kind:      workspace.KindFile,
		ParentID:  proj.ID,
		ProjectID: proj.ID,
		Path:      body.Name + "/main.py",
		Content:   fmt.Sprintf("# %s Projesi\nprint(\"Merhaba %s!\")\n", body.Name, body.Name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	b.insertLocked(uid, proj)
	b.insertLocked(uid, mainFile)
	b.mu.Unlock()

	transport.WriteMessage(w, map[string]workspace.FileRecord{
		"project":   proj,
		"main_file": mainFile,
	}, fmt.Sprintf("Proje %q oluşturuldu", body.Name))
}

func (b *Backend) handleExecute(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code     string `json:"code"`
		Language string `json:"language"`
	}
	if err := transport.DecodeBody(r, &body); err != nil {
		transport.WriteFailure(w, http.StatusBadRequest, "Geçersiz istek")
		return
	}
	if strings.TrimSpace(body.Code) == "" {
		transport.WriteFailure(w, http.StatusBadRequest, "Kod boş olamaz")
		return
	}
	if body.Language == "" {
		body.Language = string(workspace.LanguagePython)
	}

	lang, err := workspace.ParseLanguage(body.Language)
	if err != nil {
		transport.WriteData(w, workspace.Execution{
			Success: false,
			Error:   "Desteklenmeyen dil: " + body.Language,
		})
		return
	}

	b.mu.Lock()
	exec := b.exec
	b.mu.Unlock()
	transport.WriteData(w, exec(body.Code, lang))
}
