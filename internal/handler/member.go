package handler

import (
	"net/http"

	"nook-pos/internal/dto"
	"nook-pos/internal/service"

	"github.com/labstack/echo/v4"
)

type MemberHandler struct {
	memberService service.MemberService
}

func NewMemberHandler(memberService service.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

func (h *MemberHandler) ListMembers(c echo.Context) error {
	ctx := c.Request().Context()

	members, err := h.memberService.List(ctx, c.QueryParam("search"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, members)
}

func (h *MemberHandler) GetMember(c echo.Context) error {
	ctx := c.Request().Context()

	member, err := h.memberService.Get(ctx, c.Param("id"))
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, member)
}

func (h *MemberHandler) RegisterMember(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterMemberRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	member, err := h.memberService.Register(ctx, req.Name, req.Phone)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, member)
}
