package controllerImp

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chisowa/Farm-Link-Zambia/database"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/fetcher"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/repositoryImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/kb/serviceImp"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/rpc"
	"github.com/Chisowa/Farm-Link-Zambia/pkg/schema"
)

func staffOnly(_ context.Context, ac auth.Context) error {
	if ac.UserID != "agent" {
		return rpc.NewError(rpc.CodeForbidden, "staff only")
	}
	return nil
}

func newRouter(t *testing.T) *rpc.Router {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	svc := serviceImp.New(repositoryImp.New(db), nil, nil)
	r := rpc.NewRouter(schema.MustNew())
	New(svc, fetcher.New([]string{"www.zari.gov.zm"}, 0), staffOnly).Register(r)
	return r
}

func code(t *testing.T, err error) rpc.Code {
	t.Helper()
	var e *rpc.Error
	require.ErrorAs(t, err, &e)
	return e.Code
}

func TestIngestTextThenSearch(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()
	agent := auth.Authenticated("agent")

	out, err := r.Call(ctx, agent, "knowledge.ingestText", rpc.KindMutation,
		json.RawMessage(`{"title":"Groundnut rosette","text":"Rosette virus is spread by aphids. Plant early and densely."}`))
	require.NoError(t, err)
	res := out.(*IngestResult)
	assert.Equal(t, 1, res.Chunks)
	assert.Equal(t, "Groundnut rosette", res.Doc.Title)

	out, err = r.Call(ctx, auth.Anonymous(), "knowledge.search", rpc.KindQuery, json.RawMessage(`{"query":"aphids"}`))
	require.NoError(t, err)
	hits := out.(*SearchResult).Results
	require.Len(t, hits, 1)
	assert.Equal(t, "Groundnut rosette", hits[0].DocTitle)
}

func TestIngestGuards(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()
	in := json.RawMessage(`{"title":"t","text":"x"}`)

	_, err := r.Call(ctx, auth.Anonymous(), "knowledge.ingestText", rpc.KindMutation, in)
	assert.Equal(t, rpc.CodeUnauthorized, code(t, err))
	_, err = r.Call(ctx, auth.Authenticated("farmer"), "knowledge.ingestText", rpc.KindMutation, in)
	assert.Equal(t, rpc.CodeForbidden, code(t, err))
}

func TestIngestURL(t *testing.T) {
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
	httpmock.RegisterResponder("GET", "https://www.zari.gov.zm/cassava", func(*http.Request) (*http.Response, error) {
		resp := httpmock.NewStringResponse(http.StatusOK, `<html><title>Cassava</title><article><p>Use clean cuttings.</p></article></html>`)
		resp.Header.Set("Content-Type", "text/html")
		return resp, nil
	})

	r := newRouter(t)
	ctx := context.Background()
	agent := auth.Authenticated("agent")

	out, err := r.Call(ctx, agent, "knowledge.ingestURL", rpc.KindMutation, json.RawMessage(`{"url":"https://www.zari.gov.zm/cassava"}`))
	require.NoError(t, err)
	res := out.(*IngestResult)
	assert.Equal(t, "Cassava", res.Doc.Title)
	assert.Equal(t, "https://www.zari.gov.zm/cassava", res.Doc.SourceURL)

	_, err = r.Call(ctx, agent, "knowledge.ingestURL", rpc.KindMutation, json.RawMessage(`{"url":"https://blog.example.com/x"}`))
	assert.Equal(t, rpc.CodeForbidden, code(t, err))

	_, err = r.Call(ctx, agent, "knowledge.ingestURL", rpc.KindMutation, json.RawMessage(`{"url":"not a url"}`))
	assert.Equal(t, rpc.CodeBadRequest, code(t, err))
}

func TestListDocuments(t *testing.T) {
	r := newRouter(t)
	ctx := context.Background()

	out, err := r.Call(ctx, auth.Anonymous(), "knowledge.listDocuments", rpc.KindQuery, nil)
	require.NoError(t, err)
	assert.Empty(t, out.(*DocumentList).Documents)
	b, err := json.Marshal(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"documents":[]}`, string(b))

	for _, title := range []string{"Maize guide", "Cassava guide"} {
		_, err := r.Call(ctx, auth.Authenticated("agent"), "knowledge.ingestText", rpc.KindMutation,
			json.RawMessage(`{"title":"`+title+`","text":"Plant with the first rains."}`))
		require.NoError(t, err)
	}
	out, err = r.Call(ctx, auth.Anonymous(), "knowledge.listDocuments", rpc.KindQuery, nil)
	require.NoError(t, err)
	docs := out.(*DocumentList).Documents
	require.Len(t, docs, 2)
	assert.Equal(t, "Cassava guide", docs[0].Title)
	assert.Equal(t, "Maize guide", docs[1].Title)
}
