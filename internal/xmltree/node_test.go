package xmltree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `<?xml version="1.0" encoding="UTF-8"?>
<ARTICLE>
<META><META_COMMUN><ID>LEGIARTI000006419292</ID><NATURE>Article</NATURE></META_COMMUN></META>
<BLOC_TEXTUEL><CONTENU><p>Alinéa <br/>un</p></CONTENU></BLOC_TEXTUEL>
<NOTA/>
<LIENS><LIEN id="A" sens="source" typelien="CITATION">Titre du lien</LIEN></LIENS>
</ARTICLE>`

func TestParse(t *testing.T) {
	root, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "ARTICLE", root.Tag)
	assert.Equal(t, "LEGIARTI000006419292", root.FindText("META/META_COMMUN/ID"))
	assert.Equal(t, "Article", root.FindText("META/META_COMMUN/NATURE"))

	bloc := root.Child("BLOC_TEXTUEL")
	require.NotNil(t, bloc)
	assert.Equal(t, "<CONTENU><p>Alinéa <br/>un</p></CONTENU>", bloc.Inner)
	assert.Equal(t, "<p>Alinéa <br/>un</p>", bloc.Children[0].Inner)

	nota := root.Child("NOTA")
	require.NotNil(t, nota)
	assert.Empty(t, nota.Inner)

	lien := root.Find("LIENS/LIEN")
	require.NotNil(t, lien)
	assert.Equal(t, "A", lien.Attr("id"))
	assert.True(t, lien.HasAttr("sens"))
	assert.False(t, lien.HasAttr("cidtexte"))
	assert.Equal(t, "Titre du lien", lien.Text)
}

func TestParse_NestedWithWhitespace(t *testing.T) {
	// Text builders of open ancestors must survive deeper nesting.
	data := "<ARTICLE>\n<META>\n<META_COMMUN><ID>LEGIARTI000006419292</ID></META_COMMUN>\n</META>\n" +
		"<A><B><C><D><E>deep</E></D>\n</C>\n</B>\n</A>\ntail</ARTICLE>"

	root, err := Parse([]byte(data))
	require.NoError(t, err)

	assert.Equal(t, "LEGIARTI000006419292", root.FindText("META/META_COMMUN/ID"))
	assert.Equal(t, "deep", root.FindText("A/B/C/D/E"))
	assert.Equal(t, "\n\n\ntail", root.Text)
	assert.Equal(t, "\n", root.Find("A/B/C").Text)
}

func TestParse_Latin1(t *testing.T) {
	data := []byte("<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<A><B>caf\xe9</B><C>\xe0 <i>la</i></C></A>")

	root, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "café", root.FindText("B"))
	assert.Equal(t, "à <i>la</i>", root.Child("C").Inner)
}

func TestParse_UnknownEncoding(t *testing.T) {
	_, err := Parse([]byte(`<?xml version="1.0" encoding="x-no-such-charset"?><A/>`))
	assert.ErrorContains(t, err, "unsupported xml encoding")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "empty", data: ""},
		{name: "unclosed", data: "<A><B></A>"},
		{name: "only declaration", data: `<?xml version="1.0"?>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestNode_NilSafe(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Child("X"))
	assert.Nil(t, n.Find("X/Y"))
	assert.Equal(t, "", n.Attr("id"))
	assert.Equal(t, "", n.FindText("X"))
	assert.Empty(t, n.Descendants("X"))
}

func TestNode_Descendants(t *testing.T) {
	root, err := Parse([]byte(`<R><CONTEXTE><TEXTE cid="C"><TITRE_TM id="1"><TITRE_TM id="2"/></TITRE_TM></TEXTE></CONTEXTE></R>`))
	require.NoError(t, err)

	tms := root.Find("CONTEXTE/TEXTE").Descendants("TITRE_TM")
	require.Len(t, tms, 2)
	assert.Equal(t, "1", tms[0].Attr("id"))
	assert.Equal(t, "2", tms[1].Attr("id"))
}
