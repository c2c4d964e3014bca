package legi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInverseRelation(t *testing.T) {
	assert.Equal(t, "MODIFIE", InverseRelation("MODIFICATION"))
	assert.Equal(t, "MODIFICATION", InverseRelation("MODIFIE"))
	assert.Equal(t, "TRANSFERT", InverseRelation("TRANSFERE"))
	assert.Equal(t, "CITATION_R", InverseRelation("CITATION"))

	kinds := RelationKinds()
	assert.Len(t, kinds, 22)
	for _, k := range kinds {
		assert.Equal(t, k, InverseRelation(InverseRelation(k)), k)
		assert.NotEqual(t, k, InverseRelation(k), k)
	}
}

func TestExtractLinks_NoContainer(t *testing.T) {
	root := mustParse(t, `<ARTICLE><META/></ARTICLE>`)

	links, err := ExtractLinks(mustClassify(t, articlePath), root)
	require.NoError(t, err)
	assert.Empty(t, links)

	links, err = ExtractLinks(mustClassify(t, sectionPath), mustParse(t, sectionXML))
	require.NoError(t, err)
	assert.Nil(t, links)
}

func TestExtractLinks_TextVersionIgnoresArticleLevelLinks(t *testing.T) {
	root := mustParse(t, `<TEXTE_VERSION><LIENS><LIEN id="X" sens="source" typelien="CITATION"/></LIENS></TEXTE_VERSION>`)

	links, err := ExtractLinks(mustClassify(t, versionPath), root)
	require.NoError(t, err)
	assert.Empty(t, links)
}
