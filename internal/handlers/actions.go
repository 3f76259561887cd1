// Package handlers implements the HTTP endpoints of the messenger backend.
// This file parses mutation requests: the action discriminator in a PUT body
// is resolved into one typed request per action before dispatch, so each
// action's required fields are validated up front and missing fields are
// reported together.
package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Group action discriminator values accepted by PUT /api/groups.
const (
	GroupActionCreate       = "create"
	GroupActionAddMember    = "addMember"
	GroupActionRemoveMember = "removeMember"
)

// MessageActionCreate is the only action accepted by PUT /api/messages.
const MessageActionCreate = "createMessage"

// ErrInvalidAction is returned when the action discriminator is missing or
// names no known action.
var ErrInvalidAction = errors.New("invalid action")

// ValidationError aggregates every missing required field of a request into
// a single client-fixable error.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing parameters: " + strings.Join(e.Missing, ", ")
}

// CreateGroupRequest creates a group whose sole initial member is the creator.
type CreateGroupRequest struct {
	CreatorID string `json:"userId" validate:"required"`
	Name      string `json:"groupName" validate:"required"`
	IconURL   string `json:"groupIcon"`
}

// AddMemberRequest adds one user to a group. The user is identified by id or
// by display name; at least one must be present.
type AddMemberRequest struct {
	GroupID  int    `json:"groupId" validate:"required"`
	UserID   string `json:"userId" validate:"required_without=UserName"`
	UserName string `json:"userName" validate:"required_without=UserID"`
}

// RemoveMemberRequest removes one user from a group.
type RemoveMemberRequest struct {
	GroupID int    `json:"groupId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

// CreateMessageRequest appends a message to a group's history.
type CreateMessageRequest struct {
	GroupID  int    `json:"groupId" validate:"required"`
	SenderID string `json:"userId" validate:"required"`
	Body     string `json:"message" validate:"required"`
}

// validate reports field names using their json tags, so validation errors
// name the wire-level parameter the client actually omitted.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkRequest runs struct validation and folds the result into a single
// ValidationError listing every missing field.
func checkRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	missing := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		missing = append(missing, fe.Field())
	}
	return &ValidationError{Missing: missing}
}

// groupActionEnvelope is the raw PUT /api/groups body before the action
// discriminator is resolved.
type groupActionEnvelope struct {
	Action    string `json:"action"`
	UserID    string `json:"userId"`
	UserName  string `json:"userName"`
	GroupName string `json:"groupName"`
	GroupIcon string `json:"groupIcon"`
}

// parseGroupAction resolves a group mutation body into its typed request.
// The groupId query parameter is folded into the member actions, which
// address an existing group; create ignores it.
func parseGroupAction(c *fiber.Ctx) (interface{}, error) {
	var envelope groupActionEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed body", ErrInvalidAction)
	}

	groupID := c.QueryInt("groupId")

	switch envelope.Action {
	case GroupActionCreate:
		req := CreateGroupRequest{
			CreatorID: envelope.UserID,
			Name:      envelope.GroupName,
			IconURL:   envelope.GroupIcon,
		}
		if err := checkRequest(req); err != nil {
			return nil, err
		}
		return req, nil

	case GroupActionAddMember:
		req := AddMemberRequest{
			GroupID:  groupID,
			UserID:   envelope.UserID,
			UserName: envelope.UserName,
		}
		if err := checkRequest(req); err != nil {
			return nil, err
		}
		return req, nil

	case GroupActionRemoveMember:
		req := RemoveMemberRequest{
			GroupID: groupID,
			UserID:  envelope.UserID,
		}
		if err := checkRequest(req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, envelope.Action)
	}
}

// messageActionEnvelope is the raw PUT /api/messages body.
type messageActionEnvelope struct {
	Action  string `json:"action"`
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// parseMessageAction resolves a message mutation body into its typed request.
func parseMessageAction(c *fiber.Ctx) (interface{}, error) {
	var envelope messageActionEnvelope
	if err := c.BodyParser(&envelope); err != nil {
		return nil, fmt.Errorf("%w: malformed body", ErrInvalidAction)
	}

	switch envelope.Action {
	case MessageActionCreate:
		req := CreateMessageRequest{
			GroupID:  c.QueryInt("groupId"),
			SenderID: envelope.UserID,
			Body:     envelope.Message,
		}
		if err := checkRequest(req); err != nil {
			return nil, err
		}
		return req, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, envelope.Action)
	}
}
