package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/dmitrijs2005/butcherdesk/internal/server/catalog"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	Refresh string `json:"refresh" binding:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handler) login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	pair, err := h.users.Login(c.Request.Context(), in.Username, in.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": pair.AccessToken, "refresh": pair.RefreshToken})
}

// refresh answers {"access"} only; the refresh token is not rotated.
func (h *handler) refresh(c *gin.Context) {
	var in refreshRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}

	access, err := h.users.Refresh(c.Request.Context(), in.Refresh)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

func (h *handler) me(c *gin.Context) {
	claims := claimsFrom(c)
	u, err := h.users.GetUser(c.Request.Context(), claims.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Username: u.UserName, FullName: u.FullName, Role: u.Role})
}

func (h *handler) createOrder(c *gin.Context) {
	var in catalog.Order
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.catalog.CreateOrder(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

func (h *handler) patchOrder(c *gin.Context) {
	var in struct {
		Status catalog.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		abort(c, http.StatusBadRequest, err.Error())
		return
	}
	o, err := h.catalog.SetOrderStatus(c.Param("id"), in.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

func (h *handler) reviewDocument(approve bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Comment string `json:"comment"`
		}
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBindJSON(&in); err != nil {
				abort(c, http.StatusBadRequest, err.Error())
				return
			}
		}

		d, err := h.catalog.ReviewDocument(c.Param("id"), approve, claimsFrom(c).UserID, in.Comment)
		if err != nil {
			h.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, d)
	}
}

// registerCollection wires list/get/create/replace/delete for one collection.
// A non-nil create replaces the default insert.
func registerCollection[T any](g *gin.RouterGroup, path string, coll *catalog.Collection[T], create gin.HandlerFunc) {
	g.GET(path, func(c *gin.Context) {
		c.JSON(http.StatusOK, coll.List(matchQuery[T](c.Request.URL.Query())))
	})
	g.GET(path+":id/", func(c *gin.Context) {
		item, err := coll.Get(c.Param("id"))
		if err != nil {
			abort(c, http.StatusNotFound, "not found")
			return
		}
		c.JSON(http.StatusOK, item)
	})

	if create == nil {
		create = func(c *gin.Context) {
			var in T
			if err := c.ShouldBindJSON(&in); err != nil {
				abort(c, http.StatusBadRequest, err.Error())
				return
			}
			c.JSON(http.StatusCreated, coll.Create(in))
		}
	}
	g.POST(path, create)

	g.PUT(path+":id/", func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			abort(c, http.StatusBadRequest, err.Error())
			return
		}
		item, err := coll.Replace(c.Param("id"), in)
		if err != nil {
			abort(c, http.StatusNotFound, "not found")
			return
		}
		c.JSON(http.StatusOK, item)
	})
	g.DELETE(path+":id/", func(c *gin.Context) {
		if err := coll.Delete(c.Param("id")); err != nil {
			abort(c, http.StatusNotFound, "not found")
			return
		}
		c.Status(http.StatusNoContent)
	})
}

// matchQuery filters items by top-level JSON fields: ?status=new keeps items
// whose "status" is "new". Repeated keys match any of the values.
func matchQuery[T any](q url.Values) func(T) bool {
	if len(q) == 0 {
		return nil
	}
	return func(item T) bool {
		raw, err := json.Marshal(item)
		if err != nil {
			return false
		}
		var fields map[string]any
		if err := json.Unmarshal(raw, &fields); err != nil {
			return false
		}
		for key, want := range q {
			v, ok := fields[key]
			if !ok {
				return false
			}
			got, _ := json.Marshal(v)
			matched := false
			for _, w := range want {
				if string(got) == w || string(got) == `"`+w+`"` {
					matched = true
					break
				}
			}
			if !matched {
				return false
			}
		}
		return true
	}
}

// fail maps service errors onto HTTP statuses.
func (h *handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		abort(c, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorValidation):
		abort(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, common.ErrorUnauthorized):
		abort(c, http.StatusUnauthorized, "no active account found with the given credentials")
	case errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		abort(c, http.StatusUnauthorized, "token not valid: "+err.Error())
	case errors.Is(err, common.ErrorForbidden):
		abort(c, http.StatusForbidden, "forbidden")
	default:
		h.logger.Error(c.Request.Context(), "request failed", "error", err)
		abort(c, http.StatusInternalServerError, "internal error")
	}
}
