package editor

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"strings"

	"codeberg.org/archviz/studio/archviz/users"
	"codeberg.org/archviz/studio/internal/auth"
	"codeberg.org/archviz/studio/internal/catalog"
	"codeberg.org/archviz/studio/internal/editor"
	"codeberg.org/archviz/studio/internal/errors"
	"codeberg.org/archviz/studio/internal/imageops"
	"codeberg.org/archviz/studio/internal/llm"
	"codeberg.org/archviz/studio/internal/logger"
	"codeberg.org/archviz/studio/internal/quota"
	"github.com/gin-gonic/gin"
)

// RequireActiveAccount refuses banned or expired accounts whose token is still valid
func RequireActiveAccount(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth.IsAdmin(c) || deps.Accounts == nil {
			c.Next()
			return
		}

		userID, _ := auth.GetUserID(c)

		user, err := deps.Accounts.Get(c.Request.Context(), userID)
		if err != nil {
			if stderrors.Is(err, users.ErrNotFound) {
				errors.Unauthorized(c, "account no longer exists")
			} else {
				errors.InternalError(c, "failed to load account", err)
			}

			c.Abort()
			return
		}

		if status := users.Status(*user, deps.Now()); status != users.StatusActive {
			errors.Forbidden(c, "account is "+status)
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCatalog godoc
// @Summary List editor presets
// @Tags editor
// @Produce json
// @Param lang query string false "EN or TH"
// @Success 200 {object} catalog.Listing
// @Router /api/v1/editor/catalog [get]
func GetCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, catalog.List(catalog.ParseLanguage(c.Query("lang"))))
	}
}

// GetSession godoc
// @Summary Current editor state
// @Tags editor
// @Produce json
// @Success 200 {object} editor.View
// @Router /api/v1/editor/session [get]
// @Security BearerAuth
func GetSession(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c, deps)

		view, err := s.ViewWithQuota(c.Request.Context())
		if err != nil {
			if stderrors.Is(err, users.ErrNotFound) {
				errors.Unauthorized(c, "account no longer exists")
				return
			}

			// quota fields are optional; the editor state still answers
			logger.Warn("failed to load quota for session",
				"user_id", s.Identity().UserID,
				"error", err,
			)
		}

		c.JSON(http.StatusOK, view)
	}
}

// GetImage godoc
// @Summary Raw bytes of an image slot
// @Tags editor
// @Produce png,jpeg,gif
// @Param slot path string true "main, reference or result"
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/editor/images/{slot} [get]
// @Security BearerAuth
func GetImage(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := session(c, deps).Image(editor.Slot(c.Param("slot")))
		if err != nil {
			respondEditorError(c, err)
			return
		}

		c.Header("Cache-Control", "no-store")
		c.Data(http.StatusOK, img.MimeType, img.Data)
	}
}

// UploadImage godoc
// @Summary Upload an image into a slot
// @Description Accepts multipart field "file" or a JSON body with a data URL. PNG, JPEG and GIF up to 20MB and 50 megapixels.
// @Tags editor
// @Accept multipart/form-data,json
// @Produce json
// @Param slot path string true "main or reference"
// @Success 200 {object} editor.View
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /api/v1/editor/images/{slot} [put]
// @Security BearerAuth
func UploadImage(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		img, err := readUpload(c)
		if err != nil {
			respondEditorError(c, err)
			return
		}

		s := session(c, deps)
		if err := s.Upload(editor.Slot(c.Param("slot")), img); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// RemoveImage godoc
// @Summary Clear an image slot
// @Tags editor
// @Produce json
// @Param slot path string true "main or reference"
// @Success 200 {object} editor.View
// @Router /api/v1/editor/images/{slot} [delete]
// @Security BearerAuth
func RemoveImage(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c, deps)
		if err := s.Remove(editor.Slot(c.Param("slot"))); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// SetSelections godoc
// @Summary Replace catalog selections and free text
// @Tags editor
// @Accept json
// @Produce json
// @Param request body editor.Selections true "Selections"
// @Success 200 {object} editor.View
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/editor/selections [put]
// @Security BearerAuth
func SetSelections(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sel editor.Selections
		if err := c.ShouldBindJSON(&sel); err != nil {
			errors.ValidationError(c, err)
			return
		}

		s := session(c, deps)
		if _, err := s.SetSelections(sel); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// GetPrompt godoc
// @Summary Preview the assembled prompt
// @Tags editor
// @Produce json
// @Success 200 {object} PromptResponse
// @Router /api/v1/editor/prompt [get]
// @Security BearerAuth
func GetPrompt(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, PromptResponse{Prompt: session(c, deps).BuildPrompt()})
	}
}

// Generate godoc
// @Summary Generate an image
// @Description Resolves the API key, checks the daily quota, then calls the image model. Usage is counted only on success.
// @Tags editor
// @Produce json
// @Success 200 {object} GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 429 {object} errors.ErrorResponse
// @Failure 502 {object} errors.ErrorResponse
// @Router /api/v1/editor/generate [post]
// @Security BearerAuth
func Generate(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), deps.GenerationTimeout)
		defer cancel()

		clientKey := ""
		if deps.Keys != nil {
			clientKey = deps.Keys.Get(c.Request)
		}

		s := session(c, deps)

		if _, err := s.Generate(ctx, clientKey); err != nil {
			if !editor.IsRefusal(err) {
				userID, _ := auth.GetUserID(c)
				logger.Warn("generation failed",
					"user_id", userID,
					"kind", string(llm.KindOf(err)),
					"error", err,
				)
			}

			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, GenerateResponse{
			Session:   s.View(),
			ResultURL: resultPath,
		})
	}
}

// Undo godoc
// @Summary Step back in the edit history
// @Tags editor
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/v1/editor/undo [post]
// @Security BearerAuth
func Undo(deps Deps) gin.HandlerFunc {
	return historyStep(deps, (*editor.Session).Undo)
}

// Redo godoc
// @Summary Step forward in the edit history
// @Tags editor
// @Produce json
// @Success 200 {object} HistoryResponse
// @Router /api/v1/editor/redo [post]
// @Security BearerAuth
func Redo(deps Deps) gin.HandlerFunc {
	return historyStep(deps, (*editor.Session).Redo)
}

func historyStep(deps Deps, step func(*editor.Session) (bool, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c, deps)

		changed, err := step(s)
		if err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, HistoryResponse{Changed: changed, Session: s.View()})
	}
}

// Transform godoc
// @Summary Rotate or flip the active image
// @Tags editor
// @Accept json
// @Produce json
// @Param request body TransformRequest true "rotate90 or flip_horizontal"
// @Success 200 {object} editor.View
// @Failure 400 {object} errors.ErrorResponse
// @Router /api/v1/editor/transform [post]
// @Security BearerAuth
func Transform(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TransformRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		s := session(c, deps)
		if _, err := s.ApplyTransform(req.Kind); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// Reset godoc
// @Summary Discard the result and restore the main image
// @Tags editor
// @Produce json
// @Success 200 {object} editor.View
// @Router /api/v1/editor/reset [post]
// @Security BearerAuth
func Reset(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c, deps)
		if err := s.Reset(); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// UseAsInput godoc
// @Summary Promote the result to the main image
// @Tags editor
// @Produce json
// @Success 200 {object} editor.View
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/editor/use-as-input [post]
// @Security BearerAuth
func UseAsInput(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		s := session(c, deps)
		if err := s.UseAsInput(); err != nil {
			respondEditorError(c, err)
			return
		}

		c.JSON(http.StatusOK, s.View())
	}
}

// Download godoc
// @Summary Download the result
// @Tags editor
// @Produce png
// @Success 200 {file} binary
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/v1/editor/download [get]
// @Security BearerAuth
func Download(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, name, err := session(c, deps).Download()
		if err != nil {
			respondEditorError(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "image/png", data)
	}
}

// SaveAPIKey godoc
// @Summary Store a client-local API key
// @Description The key lives in an encrypted cookie and clears any re-entry prompt.
// @Tags editor
// @Accept json
// @Produce json
// @Param request body APIKeyRequest true "Key"
// @Success 200 {object} MessageResponse
// @Router /api/v1/editor/api-key [put]
// @Security BearerAuth
func SaveAPIKey(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req APIKeyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			errors.ValidationError(c, err)
			return
		}

		key := strings.TrimSpace(req.APIKey)
		if key == "" {
			errors.ValidationMessage(c, "api key is required")
			return
		}

		if err := deps.Keys.Save(c.Writer, c.Request, key); err != nil {
			errors.InternalError(c, "failed to save api key", err)
			return
		}

		if deps.Credentials != nil {
			userID, _ := auth.GetUserID(c)
			deps.Credentials.KeySaved(userID)
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "api key saved"})
	}
}

// ClearAPIKey godoc
// @Summary Remove the client-local API key
// @Tags editor
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /api/v1/editor/api-key [delete]
// @Security BearerAuth
func ClearAPIKey(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Keys.Clear(c.Writer, c.Request); err != nil {
			errors.InternalError(c, "failed to remove api key", err)
			return
		}

		c.JSON(http.StatusOK, MessageResponse{Message: "api key removed"})
	}
}

func session(c *gin.Context, deps Deps) *editor.Session {
	userID, _ := auth.GetUserID(c)

	return deps.Sessions.Session(editor.Identity{
		UserID:  userID,
		IsAdmin: auth.IsAdmin(c),
	})
}

// reads a multipart "file" field or a JSON data URL
func readUpload(c *gin.Context) (*imageops.Image, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, imageops.ErrEmptyImage
		}

		if header.Size > imageops.MaxImageBytes {
			return nil, imageops.ErrImageTooLarge
		}

		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close() //nolint:errcheck // read-only upload

		data, err := io.ReadAll(io.LimitReader(f, imageops.MaxImageBytes+1))
		if err != nil {
			return nil, err
		}

		return imageops.Decode(data)
	}

	var req UploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, imageops.ErrInvalidDataURL
	}

	return imageops.ParseDataURL(req.DataURL)
}

// maps domain errors onto the REST error helpers
func respondEditorError(c *gin.Context, err error) {
	var genErr *llm.GenerationError

	switch {
	case stderrors.Is(err, editor.ErrEmptyRequest):
		errors.ValidationMessage(c, err.Error())
	case stderrors.Is(err, editor.ErrInvalidSelection),
		stderrors.Is(err, editor.ErrInvalidSlot),
		stderrors.Is(err, imageops.ErrEmptyImage),
		stderrors.Is(err, imageops.ErrImageTooLarge),
		stderrors.Is(err, imageops.ErrTooManyPixels),
		stderrors.Is(err, imageops.ErrUnsupportedImage),
		stderrors.Is(err, imageops.ErrInvalidDataURL),
		stderrors.Is(err, imageops.ErrUnknownTransform):
		errors.ValidationMessage(c, err.Error())
	case stderrors.Is(err, editor.ErrNoImage):
		errors.NotFound(c, "image")
	case stderrors.Is(err, editor.ErrMissingCredential):
		errors.CredentialRequired(c)
	case stderrors.Is(err, editor.ErrQuotaReached):
		errors.QuotaReached(c, editor.MessageQuotaReached)
	case stderrors.Is(err, quota.ErrNoSession):
		errors.Unauthorized(c, "account no longer exists")
	case stderrors.Is(err, editor.ErrGenerationInProgress):
		errors.Conflict(c, "A generation is already in progress.")
	case stderrors.As(err, &genErr):
		respondGenerationError(c, err)
	default:
		errors.InternalError(c, "editor operation failed", err)
	}
}

func respondGenerationError(c *gin.Context, err error) {
	message := llm.UserMessage(err)

	switch llm.KindOf(err) {
	case llm.KindInvalidCredential:
		errors.CredentialInvalid(c, message)
	case llm.KindRateLimited:
		errors.TooManyRequests(c, message)
	default:
		errors.GenerationFailed(c, message)
	}
}
