package controller

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go-acquire/game"
	"go-acquire/service"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: x", service.ErrGameNotFound), http.StatusNotFound},
		{&game.NotFoundError{}, http.StatusNotFound},
		{&game.InvalidStateError{}, http.StatusBadRequest},
		{&game.InsufficientSharesError{}, http.StatusBadRequest},
		{game.ErrNotYourTurn, http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", game.ErrOddTrade), http.StatusBadRequest},
		{service.ErrNotHost, http.StatusBadRequest},
		{service.ErrArchiveNotEnabled, http.StatusServiceUnavailable},
		{service.ErrNotGamePlayer, http.StatusForbidden},
		{fmt.Errorf("恢复失败: %w", game.ErrInvalidSnapshot), http.StatusBadRequest},
		{errors.New("redis down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusCode(tc.err), tc.err.Error())
	}
}
