package marshal_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/ehentai"
	"github.com/ehviewer/ehparse/marshal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newExports(t *testing.T) *marshal.Exports {
	t.Helper()

	exports, err := marshal.NewExports(newHarness(), ehentai.NewDefaultRegistry(nil))
	require.NoError(t, err)
	return exports
}

func favoritesInput(count int, name string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="nosel">`)
	for i := range ehparse.FavoriteSlots {
		fmt.Fprintf(&sb, "<div class=\"fp\" onclick=\"document.location='?favcat=%d'\">\n<div>%d</div>\n<div class=\"i\"></div>\n<div class=\"fl\">%s</div>\n</div>\n", i, count, name)
	}
	sb.WriteString(`</div><div class="ido"><p class="ip">No hits found</p></div>`)
	return sb.String()
}

func TestScenarios(t *testing.T) {
	t.Parallel()

	t.Run("image limits", func(t *testing.T) {
		t.Parallel()

		mem, length, capacity := load(`<div class="homebox"><p>You are currently at <strong>5</strong> towards a limit of <strong>100</strong>.</p><p>Reset Cost: <strong>10</strong> GP</p></div>`, 4096)

		n := newExports(t).Call("parseLimit", mem, length, capacity)

		require.Positive(t, n)
		assert.JSONEq(t, `{"current":5,"maximum":100,"resetCost":10}`, string(mem[:n]))
	})

	t.Run("favorites", func(t *testing.T) {
		t.Parallel()

		mem, length, capacity := load(favoritesInput(42, "Misc"), 8192)

		n := newExports(t).Call("parseFav", mem, length, capacity)

		require.Positive(t, n)
		out := string(mem[:n])
		cats := gjson.Get(out, "catArray").Array()
		counts := gjson.Get(out, "countArray").Array()
		require.Len(t, cats, 10)
		require.Len(t, counts, 10)
		for i := range cats {
			assert.Equal(t, "Misc", cats[i].String())
			assert.Equal(t, int64(42), counts[i].Int())
		}
		assert.True(t, gjson.Get(out, "galleryListResult.galleryInfoList").IsArray())
	})

	t.Run("favorites on a log on page", func(t *testing.T) {
		t.Parallel()

		input := `<p>This page requires you to log on.</p>`
		mem, length, capacity := load(input, 4096)

		n := newExports(t).Call("parseFav", mem, length, capacity)

		assert.Equal(t, int32(ehparse.StatusFault), n)
	})

	t.Run("favorites on another page", func(t *testing.T) {
		t.Parallel()

		mem, length, capacity := load(`<div class="homebox"></div>`, 4096)

		n := newExports(t).Call("parseFav", mem, length, capacity)

		assert.Equal(t, int32(ehparse.StatusNotApplicable), n)
	})

	t.Run("torrents without tables", func(t *testing.T) {
		t.Parallel()

		mem, length, capacity := load(`<p>No torrents.</p>`, 64)

		n := newExports(t).Call("parseTorrent", mem, length, capacity)

		require.Equal(t, int32(2), n)
		assert.Equal(t, "[]", string(mem[:n]))
	})

	t.Run("result larger than the buffer", func(t *testing.T) {
		t.Parallel()

		input := `<div id=cdiv><div class=c1><div class=c6 id=comment_0></div></div></div>`
		mem, length, capacity := load(input, len(input))

		n := newExports(t).Call("parseComments", mem, length, capacity)

		assert.Equal(t, int32(ehparse.StatusTooLarge), n)
		assert.Equal(t, input, string(mem))
	})
}

func TestScenarios_HostileInput(t *testing.T) {
	t.Parallel()

	exports := newExports(t)

	t.Run("deep nesting is a fault at every entry point", func(t *testing.T) {
		t.Parallel()

		input := strings.Repeat("<b>", 2_000_000)
		for _, name := range exports.Names() {
			mem, length, capacity := load(input, len(input))

			n := exports.Call(name, mem, length, capacity)

			assert.Equal(t, int32(ehparse.StatusFault), n, name)
		}
	})

	t.Run("nesting built by HTML5 tree construction is a fault", func(t *testing.T) {
		t.Parallel()

		input := strings.Repeat("<span/>", 5000) + `<div id="cdiv"></div><table class="itg"></table>`
		for _, name := range []string{"parseGalleryList", "parseComments"} {
			mem, length, capacity := load(input, len(input))

			n := exports.Call(name, mem, length, capacity)

			assert.Equal(t, int32(ehparse.StatusFault), n, name)
		}
	})

	t.Run("an unterminated attribute value yields no elements", func(t *testing.T) {
		t.Parallel()

		input := `<div class="homebox" title="` + strings.Repeat("x", 1<<20)
		for _, name := range []string{"parseFav", "parseLimit", "parseGalleryList", "parseComments"} {
			mem, length, capacity := load(input, len(input))

			n := exports.Call(name, mem, length, capacity)

			assert.Equal(t, int32(ehparse.StatusNotApplicable), n, name)
			assert.Equal(t, input, string(mem), name)
		}

		mem, length, capacity := load(input, len(input))
		n := exports.Call("parseTorrent", mem, length, capacity)
		require.Positive(t, n)
		assert.JSONEq(t, `[]`, string(mem[:n]))
	})
}
