package main

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/patrickward/codepane"
)

// handleCreateSnippet saves the pasted code and redirects to it.
func (s *Server) handleCreateSnippet(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.flash.SetError(w, "Could not read the form")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	name := strings.TrimSpace(r.PostFormValue("filename"))
	code := r.PostFormValue("code")

	info, err := s.repo.Create(name, code)
	if err != nil {
		s.flash.SetError(w, createErrorMessage(name, err))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if s.hub != nil {
		s.hub.Reload()
	}

	s.flash.SetSuccess(w, fmt.Sprintf("Saved %s", info.ID))
	http.Redirect(w, r, "/s/"+info.ID, http.StatusSeeOther)
}

func createErrorMessage(name string, err error) string {
	switch {
	case errors.Is(err, codepane.ErrInvalidName):
		if name == "" {
			return "File name cannot be empty"
		}
		return "File name must use only letters, numbers, dashes, periods, underscores and forward slashes"
	case errors.Is(err, codepane.ErrSnippetExists):
		return fmt.Sprintf("%s already exists", name)
	case errors.Is(err, codepane.ErrSnippetTooLarge):
		return "Snippet is too large"
	case errors.Is(err, codepane.ErrEncryptionDisabled):
		return "Encryption keys are not configured, so .age snippets cannot be saved"
	default:
		return "Could not save the snippet"
	}
}
