package handler

import (
	"context"
	"errors"
	"net/http"

	"linkboard/backend/common"
	lberrors "linkboard/backend/common/errors"
	"linkboard/backend/common/i18n"
	"linkboard/backend/model"

	"github.com/gin-gonic/gin"
)

type UserFinder interface {
	FindUser(ctx context.Context, id int64) (*model.User, error)
}

type UserHandler struct {
	users UserFinder
}

func NewUserHandler(users UserFinder) *UserHandler {
	return &UserHandler{users: users}
}

// GetSelf returns the caller's profile. Requires JWTAuth.
func (h *UserHandler) GetSelf(c *gin.Context) {
	lang := common.LangFromContext(c.Request.Context())
	id, ok := common.UserIDFromContext(c.Request.Context())
	if !ok {
		common.RespErrorStr(c, http.StatusUnauthorized, i18n.Translate(lberrors.ErrNotLoggedIn, lang, i18n.Translate("action_view_profile", lang)))
		return
	}
	user, err := h.users.FindUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, model.ErrRecordNotFound) {
			common.RespErrorStr(c, http.StatusNotFound, i18n.Translate(lberrors.ErrUserNotFound, lang))
			return
		}
		common.SysError("failed to load user: " + err.Error())
		common.RespErrorStr(c, http.StatusInternalServerError, i18n.Translate(lberrors.ErrInternalServer, lang))
		return
	}
	common.RespSuccess(c, gin.H{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"created_at": common.FormatTime(user.CreatedAt),
	})
}
