package ehentai_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ehviewer/ehparse"
	"github.com/ehviewer/ehparse/html"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, page string) *ehparse.Document {
	t.Helper()

	doc, err := html.NewDecoder().Decode([]byte(page))
	require.NoError(t, err)
	return doc
}

// selfClosedSpans writes n spans in self-closing form. The span tree keeps
// them flat, but HTML5 tree construction ignores the slash and nests each
// one inside the last.
func selfClosedSpans(n int) string {
	return strings.Repeat("<span/>", n)
}

const galleryTable = `<table class="itg gltc">
<tr><th>Category</th><th>Published</th><th>Title</th><th>Uploader</th></tr>
<tr>
<td class="gl1c glcat"><div class="cn ct2" onclick="document.location='https://e-hentai.org/doujinshi'">Doujinshi</div></td>
<td class="gl2c"><div class="glthumb"><div><img style="height:283px;width:200px" alt="Title One" title="Title One" data-src="https://ehgt.org/t/aa/bb/one.jpg" src="data:image/gif;base64,R0lGODlhAQABAIAAAP///wAAACH5BAEAAAAALAAAAAABAAEAAAICRAEAOw=="></div></div>
<div><div onclick="popUp()" id="posted_2345678">2023-01-15 10:20</div><div class="ir" style="background-position:-16px -21px;opacity:1"></div></div></td>
<td class="gl3c glname"><a href="https://e-hentai.org/g/2345678/0123abcdef/"><div class="glink">Title One</div><div><div class="gt" title="language:english">english</div><div class="gt" title="female:glasses">glasses</div></div></a></td>
<td class="gl4c glhide"><div><a href="https://e-hentai.org/uploader/someone">someone</a></div><div>24 pages</div></td>
</tr>
<tr>
<td class="gl1c glcat"><div class="cn ct9">Non-H</div></td>
<td class="gl2c"><div class="glthumb"><div><img src="https://ehgt.org/t/cc/dd/two.jpg"></div></div>
<div><div id="posted_2345679">2023-01-16 08:00</div><div class="ir" style="background-position:0px -1px;opacity:1"></div></div></td>
<td class="gl3c glname"><a href="https://e-hentai.org/g/2345679/fedcba9876/"><div class="glink">Title &amp; Two</div></a></td>
<td class="gl4c glhide"><div><a href="https://e-hentai.org/uploader/other">other</a></div><div>1 page</div></td>
</tr>
</table>`

const galleryPaging = `<div class="searchnav">
<div><a id="uprev" href="https://e-hentai.org/?prev=2345680">&lt; Prev</a></div>
<div><a id="unext" href="https://e-hentai.org/?next=2345678">Next &gt;</a></div>
</div>`

const galleryThumbnails = `<div class="itg gld">
<div class="gl1t">
<a href="https://e-hentai.org/g/3000001/aaaaaaaaaa/"><div class="gl4t glname glink">Thumb Gallery</div></a>
<div class="gl3t"><a href="https://e-hentai.org/g/3000001/aaaaaaaaaa/"><img src="https://ehgt.org/t/ee/ff/three.jpg"></a></div>
<div class="gl5t"><div><div class="cs ct6">Image Set</div><div id="posted_3000001">2024-03-01 12:00</div></div><div><div class="ir" style="background-position:-32px -1px;opacity:1"></div><div>7 pages</div></div></div>
</div>
</div>`

// favoritesPage renders a favorites page with one .fp per slot. Each slot is
// "count|name"; whitespace separates the children like the real page does.
func favoritesPage(slots []string, list string) string {
	var sb strings.Builder
	sb.WriteString(`<html><body><div class="ido"><div class="nosel">`)
	for i, slot := range slots {
		count, name, _ := strings.Cut(slot, "|")
		fmt.Fprintf(&sb, "<div class=\"fp\" onclick=\"document.location='?favcat=%d'\">\n <div>%s</div>\n <div class=\"i\" style=\"background-position:0px -%dpx\"></div>\n <div class=\"fl\" title=\"%s\">%s</div>\n</div>\n", i, count, i*19+2, name, name)
	}
	sb.WriteString(`<div class="fp fps" onclick="document.location='?favcat=all'"><div>999</div><div></div><div>Show All Favorites</div></div>`)
	sb.WriteString(`</div>`)
	sb.WriteString(list)
	sb.WriteString(`</div></body></html>`)
	return sb.String()
}

func repeatSlot(slot string, n int) []string {
	slots := make([]string, n)
	for i := range slots {
		slots[i] = slot
	}
	return slots
}

const torrentTable = `<form method="post" action="https://e-hentai.org/gallerytorrents.php?gid=1&amp;t=abc">
<div><table style="width:99%%">
<tr>
<td style="width:190px"><span class="halp">Posted:</span> %s 10:20</td>
<td><span class="halp">Size:</span> 1.23 GiB</td>
<td style="width:60px"><span class="halp">Seeds:</span> 12</td>
<td style="width:60px"><span class="halp">Peers:</span> 3</td>
<td style="width:80px"><span class="halp">Downloads:</span> 456</td>
</tr>
<tr><td colspan="5"><span class="halp">Uploader:</span>someone</td></tr>
<tr><td colspan="5"><a href="https://ehtracker.org/get/1/abc.torrent" onclick="document.location='https://ehtracker.org/get/1/abc.torrent?p=%s'; return false">%s</a></td></tr>
</table></div>
</form>`

func torrent(posted, key, name string) string {
	return fmt.Sprintf(torrentTable, posted, key, name)
}

const commentSection = `<div id="cdiv" class="gm">
<div class="c1">
<div class="c2"><div class="c3">Posted on 15 January 2023, 10:20 by: &nbsp; <a href="https://e-hentai.org/uploader/someone">someone</a>&nbsp; &nbsp; </div><div class="c4 nosel">Uploader Comment</div><div class="c"></div></div>
<div class="c6" id="comment_0">Thanks for <b>reading</b>!</div>
</div>
<div class="c1">
<div class="c2"><div class="c3">Posted on 16 January 2023, 08:05 by: &nbsp; <a href="https://e-hentai.org/uploader/reader">reader</a>&nbsp; &nbsp; </div>
<div class="c4 nosel">[<a id="comment_vote_up_4242" style="color:blue" href="#" onclick="vote_comment_up(4242); return false">Vote+</a>] &nbsp; [<a id="comment_vote_down_4242" href="#" onclick="vote_comment_down(4242); return false">Vote-</a>]</div>
<div class="c5 nosel"><span id="comment_score_4242" style="opacity:1">+12</span></div><div class="c"></div></div>
<div class="c6" id="comment_4242">Great work<br>again</div>
<div class="c7" id="cvotes_4242" style="display:none">Base +3, <span>voter</span> +9</div>
<div class="c8">Last edited on <strong>17 January 2023, 09:30</strong>.</div>
</div>
<div class="c1">
<div class="c2"><div class="c3">Posted on 18 January 2023, 23:59 by: &nbsp; <a href="https://e-hentai.org/uploader/me">me</a></div>
<div class="c4 nosel">[<a href="#" onclick="edit_comment(4343); return false">Edit</a>]</div>
<div class="c5 nosel"><span id="comment_score_4343" style="opacity:1">-2</span></div></div>
<div class="c6" id="comment_4343">mine</div>
</div>
</div>`

const commentsHidden = `<div id="chd"><p>There are 5 more comments below the viewing threshold - <a href="https://e-hentai.org/g/1/abc/?hc=1#comments">click to show all</a>.</p></div>`
