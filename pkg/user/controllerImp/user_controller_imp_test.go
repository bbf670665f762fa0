package controllerImp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/entities"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/repositoryImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/user/serviceImp"
)

func newRouter(t *testing.T) (*rpc.Router, *UserCtrl) {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	h := New(serviceImp.NewUserService(repositoryImp.NewUsers(db), repositoryImp.NewFarms(db)))
	r := rpc.NewRouter(schema.MustNew())
	h.Register(r)
	return r, h
}

func code(t *testing.T, err error) rpc.Code {
	t.Helper()
	var e *rpc.Error
	require.ErrorAs(t, err, &e)
	return e.Code
}

func TestWhoAmI(t *testing.T) {
	r, _ := newRouter(t)
	out, err := r.Call(context.Background(), auth.Anonymous(), "user.whoami", rpc.KindQuery, nil)
	require.NoError(t, err)
	assert.Equal(t, auth.Anonymous(), out)
}

func TestProtectedProceduresNeedIdentity(t *testing.T) {
	r, _ := newRouter(t)
	for _, p := range r.Procedures() {
		if p.Path == "user.whoami" {
			continue
		}
		_, err := r.Call(context.Background(), auth.Anonymous(), p.Path, p.Kind, nil)
		assert.Equal(t, rpc.CodeUnauthorized, code(t, err), p.Path)
	}
}

func TestRegisterThenFarms(t *testing.T) {
	r, _ := newRouter(t)
	ctx := context.Background()
	me := auth.Authenticated("uid-1")

	_, err := r.Call(ctx, me, "user.getProfile", rpc.KindQuery, nil)
	assert.Equal(t, rpc.CodeNotFound, code(t, err))

	_, err = r.Call(ctx, me, "user.createFarm", rpc.KindMutation, json.RawMessage(`{"name":"Plot A"}`))
	assert.Equal(t, rpc.CodeForbidden, code(t, err))

	out, err := r.Call(ctx, me, "user.createUser", rpc.KindMutation,
		json.RawMessage(`{"email":"mwila@example.zm","name":"Mwila","role":"farmer"}`))
	require.NoError(t, err)
	assert.Equal(t, entities.RoleFarmer, out.(*entities.User).Role)

	_, err = r.Call(ctx, me, "user.createUser", rpc.KindMutation,
		json.RawMessage(`{"email":"x@example.zm","name":"X","role":"farmer"}`))
	assert.Equal(t, rpc.CodeConflict, code(t, err))

	out, err = r.Call(ctx, me, "user.createFarm", rpc.KindMutation, json.RawMessage(`{"name":"Plot A","location":"Mkushi"}`))
	require.NoError(t, err)
	farm := out.(*entities.Farm)

	out, err = r.Call(ctx, me, "user.listFarms", rpc.KindQuery, nil)
	require.NoError(t, err)
	assert.Len(t, out.(*FarmList).Farms, 1)

	out, err = r.Call(ctx, me, "user.getFarm", rpc.KindQuery, json.RawMessage(`{"farmId":"`+farm.ID+`"}`))
	require.NoError(t, err)
	assert.Equal(t, "Mkushi", out.(*entities.Farm).Location)

	_, err = r.Call(ctx, auth.Authenticated("uid-2"), "user.getFarm", rpc.KindQuery, json.RawMessage(`{"farmId":"`+farm.ID+`"}`))
	assert.Equal(t, rpc.CodeNotFound, code(t, err))
}

func TestCreateUserValidation(t *testing.T) {
	r, _ := newRouter(t)
	_, err := r.Call(context.Background(), auth.Authenticated("u"), "user.createUser", rpc.KindMutation,
		json.RawMessage(`{"email":"not-an-email","name":"N","role":"farmer"}`))
	var e *rpc.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, rpc.CodeBadRequest, e.Code)
	require.NotEmpty(t, e.Issues)
	assert.Equal(t, "email", e.Issues[0].Path)

	_, err = r.Call(context.Background(), auth.Authenticated("u"), "user.createUser", rpc.KindMutation,
		json.RawMessage(`{"email":"a@example.zm","name":"N","role":"agent"}`))
	assert.Equal(t, rpc.CodeForbidden, code(t, err))
}

func TestRequireStaff(t *testing.T) {
	r, h := newRouter(t)
	ctx := context.Background()

	assert.Equal(t, rpc.CodeUnauthorized, code(t, h.RequireStaff(ctx, auth.Anonymous())))
	assert.Equal(t, rpc.CodeForbidden, code(t, h.RequireStaff(ctx, auth.Authenticated("uid-1"))))

	_, err := r.Call(ctx, auth.Authenticated("uid-1"), "user.createUser", rpc.KindMutation,
		json.RawMessage(`{"email":"boss@example.zm","name":"Boss","role":"farmer"}`))
	require.NoError(t, err)
	_, err = h.s.SetRole(ctx, "boss@example.zm", entities.RoleAgent)
	require.NoError(t, err)
	assert.NoError(t, h.RequireStaff(ctx, auth.Authenticated("uid-1")))
}
