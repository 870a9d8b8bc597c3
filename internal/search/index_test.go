package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() []Document {
	return []Document{
		{ID: "1", Title: "Bridge Replacement", Body: "<p>Replace the span.</p>", Agency: "Federal Highway Administration", POCName: "Ann Lee", States: "California", Status: "Open"},
		{ID: "2", Title: "Road Widening", Body: "<p>Includes <b>bridge</b> work.</p>", Agency: "Department of Transportation", POCName: "Bo Chen", States: "Texas,Oklahoma", Status: "Open"},
		{ID: "3", Title: "Lighthouse Rehabilitation", Body: "<p>Coastal station.</p>", Agency: "Coast Guard", POCName: "Cy Diaz", States: "Maine", Status: "Reopened"},
	}
}

// forEachMode runs fn against an FTS-backed index (when the driver has FTS5)
// and against the in-process scorer.
func forEachMode(t *testing.T, fn func(t *testing.T, ix *Index)) {
	for _, disable := range []bool{false, true} {
		name := "fts"
		if disable {
			name = "scan"
		}
		t.Run(name, func(t *testing.T) {
			ix, err := Build(context.Background(), testDocs(), Options{DisableFTS: disable})
			require.NoError(t, err)
			defer ix.Close()
			fn(t, ix)
		})
	}
}

func refs(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Ref
	}
	return out
}

func TestQueryEmptyMatchesNothing(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		ctx := context.Background()
		assert.Nil(t, ix.Query(ctx, ""))
		assert.Nil(t, ix.Query(ctx, "   \t"))
		assert.Nil(t, ix.Query(ctx, `"(*`))
	})
}

func TestQueryWeightsTitleAboveBody(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		results := ix.Query(context.Background(), "bridge")
		require.Len(t, results, 2)
		assert.Equal(t, []string{"1", "2"}, refs(results))
		assert.Greater(t, results[0].Score, results[1].Score)
		assert.Greater(t, results[1].Score, 0.0)
	})
}

func TestQueryMatchesPartialWords(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		assert.Equal(t, []string{"3"}, refs(ix.Query(context.Background(), "lighth")))
		assert.Equal(t, []string{"2"}, refs(ix.Query(context.Background(), "oklah")))
	})
}

func TestQueryRequiresEveryToken(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		assert.Equal(t, []string{"2"}, refs(ix.Query(context.Background(), "bridge road")))
		assert.Empty(t, ix.Query(context.Background(), "bridge maine"))
	})
}

func TestQueryDoesNotStem(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		assert.Empty(t, ix.Query(context.Background(), "replacements"))
	})
}

func TestQueryToleratesOperatorSyntax(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		ctx := context.Background()
		assert.NotPanics(t, func() { ix.Query(ctx, `title:"bridge AND (`) })
		assert.NotPanics(t, func() { ix.Query(ctx, `NEAR(* -`) })
		assert.NotPanics(t, func() { ix.Query(ctx, `"coast guard" OR`) })
	})
}

func TestQueryIsDeterministic(t *testing.T) {
	forEachMode(t, func(t *testing.T, ix *Index) {
		ctx := context.Background()
		first := ix.Query(ctx, "open")
		second := ix.Query(ctx, "open")
		assert.Equal(t, first, second)
		assert.Len(t, first, 2)
	})
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Replace the span.", PlainText("<p>Replace the span.</p>"))
	assert.Equal(t, "One\n\nTwo", PlainText("<p>One</p><p>Two</p>"))
	assert.Equal(t, "kept", PlainText("<script>alert(1)</script>kept"))
	assert.Equal(t, "plain text", PlainText("  plain text "))
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"new", "york", "2024"}, Tokens("New-York, 2024!"))
	assert.Nil(t, Tokens(`"*()`))
}
