package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/dmitrijs2005/butcherdesk/internal/client/apiclient"
	"github.com/dmitrijs2005/butcherdesk/internal/client/models"
	"github.com/dmitrijs2005/butcherdesk/internal/common"
	"github.com/stretchr/testify/require"
)

type call struct {
	Method string
	Path   string
	Query  url.Values
	In     any
}

// fakeClient records calls and answers from a path→JSON table.
type fakeClient struct {
	calls     []call
	responses map[string]string
	err       error

	loginErr    error
	gotPassword string
	loggedOut   bool
	authed      bool
}

func (f *fakeClient) Get(_ context.Context, path string, query url.Values) (*apiclient.Response, error) {
	f.calls = append(f.calls, call{Method: http.MethodGet, Path: path, Query: query})
	if f.err != nil {
		return nil, f.err
	}
	return &apiclient.Response{StatusCode: http.StatusOK, Body: []byte(f.responses[path])}, nil
}

func (f *fakeClient) DoJSON(_ context.Context, method, path string, in, out any) error {
	f.calls = append(f.calls, call{Method: method, Path: path, In: in})
	if f.err != nil {
		return f.err
	}
	if body, ok := f.responses[path]; ok && out != nil {
		return json.Unmarshal([]byte(body), out)
	}
	return nil
}

func (f *fakeClient) Login(_ context.Context, _, password string) error {
	f.gotPassword = password
	if f.loginErr == nil {
		f.authed = true
	}
	return f.loginErr
}

func (f *fakeClient) Logout(context.Context) error {
	f.loggedOut = true
	f.authed = false
	return nil
}

func (f *fakeClient) IsAuthenticated(context.Context) bool { return f.authed }

func (f *fakeClient) last() call { return f.calls[len(f.calls)-1] }

func TestResource_List(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		ProductsPath: `[{"id":"p1","name":"Pork belly","unit":"kg","price_cents":950}]`,
	}}
	products := NewCatalog(fc).Products

	q := url.Values{"unit": []string{"kg"}}
	items, err := products.List(context.Background(), q)
	require.NoError(t, err)
	require.Equal(t, []models.Product{{ID: "p1", Name: "Pork belly", Unit: "kg", Price: 950}}, items)
	require.Equal(t, call{Method: http.MethodGet, Path: ProductsPath, Query: q}, fc.last())
}

func TestResource_ListEmptyBody(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{}}
	items, err := NewResource[models.Customer](fc, "customers").List(context.Background(), nil)
	require.NoError(t, err)
	require.NotNil(t, items)
	require.Empty(t, items)
	require.Equal(t, "customers/", fc.last().Path)
}

func TestResource_ListDecodeError(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{SuppliersPath: `{"not":"a list"}`}}
	_, err := NewCatalog(fc).Suppliers.List(context.Background(), nil)
	require.Error(t, err)
}

func TestResource_CRUDPaths(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		CustomersPath + "c%2F1/": `{"id":"c/1","name":"Deli"}`,
		CustomersPath:            `{"id":"c2","name":"Cafe"}`,
	}}
	customers := NewCatalog(fc).Customers
	ctx := context.Background()

	c, err := customers.Get(ctx, "c/1")
	require.NoError(t, err)
	require.Equal(t, "Deli", c.Name)
	require.Equal(t, "/customers/c%2F1/", fc.last().Path)

	created, err := customers.Create(ctx, models.Customer{Name: "Cafe"})
	require.NoError(t, err)
	require.Equal(t, "c2", created.ID)
	require.Equal(t, http.MethodPost, fc.last().Method)

	_, err = customers.Update(ctx, "c2", models.Customer{Name: "Cafe 2"})
	require.NoError(t, err)
	require.Equal(t, call{Method: http.MethodPut, Path: "/customers/c2/", In: models.Customer{Name: "Cafe 2"}}, fc.last())

	require.NoError(t, customers.Delete(ctx, "c2"))
	require.Equal(t, call{Method: http.MethodDelete, Path: "/customers/c2/"}, fc.last())
}

func TestResource_ErrorPropagates(t *testing.T) {
	boom := &apiclient.Error{Kind: apiclient.KindRefreshFailed}
	fc := &fakeClient{err: boom}
	_, err := NewOrderService(fc).Get(context.Background(), "o1")
	require.ErrorIs(t, err, apiclient.ErrRefreshFailed)
}

func TestDocumentService_Review(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{
		"/documents/d1/approve/": `{"id":"d1","status":"approved","reviewed_by":"vet"}`,
		"/documents/d1/reject/":  `{"id":"d1","status":"rejected","comment":"stamp missing"}`,
	}}
	docs := NewDocumentService(fc)
	ctx := context.Background()

	d, err := docs.Approve(ctx, "d1", "")
	require.NoError(t, err)
	require.Equal(t, models.DocumentApproved, d.Status)
	require.Equal(t, http.MethodPost, fc.last().Method)

	d, err = docs.Reject(ctx, "d1", "stamp missing")
	require.NoError(t, err)
	require.Equal(t, models.DocumentRejected, d.Status)
	require.Equal(t, reviewRequest{Comment: "stamp missing"}, fc.last().In)
}

func TestOrderService_SetStatus(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{"/orders/o1/": `{"id":"o1","status":"shipped"}`}}

	o, err := NewOrderService(fc).SetStatus(context.Background(), "o1", models.OrderShipped)
	require.NoError(t, err)
	require.Equal(t, models.OrderShipped, o.Status)
	require.Equal(t, call{Method: http.MethodPatch, Path: "/orders/o1/", In: statusPatch{Status: models.OrderShipped}}, fc.last())
}

func TestAuthService_Login(t *testing.T) {
	fc := &fakeClient{responses: map[string]string{common.MePath: `{"id":"u1","username":"vet","role":"veterinarian"}`}}
	svc := NewAuthService(fc)

	pw := []byte("secret")
	u, err := svc.Login(context.Background(), "vet", pw)
	require.NoError(t, err)
	require.Equal(t, models.RoleVeterinarian, u.Role)
	require.Equal(t, "secret", fc.gotPassword)
	require.Equal(t, make([]byte, len(pw)), pw)
	require.True(t, svc.IsAuthenticated(context.Background()))
}

func TestAuthService_LoginError(t *testing.T) {
	fc := &fakeClient{loginErr: errors.New("bad credentials")}
	_, err := NewAuthService(fc).Login(context.Background(), "vet", []byte("x"))
	require.ErrorContains(t, err, "login failed")
	require.Empty(t, fc.calls)
}

func TestAuthService_Logout(t *testing.T) {
	fc := &fakeClient{authed: true}
	svc := NewAuthService(fc)
	require.NoError(t, svc.Logout(context.Background()))
	require.True(t, fc.loggedOut)
	require.False(t, svc.IsAuthenticated(context.Background()))
}
