package nouns

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"l", "homme", "un", "chat", "une", "idée", "fin"},
		Tokenize("l’homme, un chat. une “idée fin"))
}

func TestIsNoun(t *testing.T) {
	assert.True(t, IsNoun("chat"))
	assert.True(t, IsNoun("Paris"), "capitalised words are kept")
	assert.False(t, IsNoun("2021"))
	assert.False(t, IsNoun("G7"))
	assert.False(t, IsNoun("ONU"))
	assert.False(t, IsNoun("A"))
	assert.False(t, IsNoun("petit"))
	assert.False(t, IsNoun("nouvelle"))
	assert.True(t, IsNoun("-"), "tokens without letters are not uppercase")
}

func TestExtract_GenderAndPhrase(t *testing.T) {
	text := "Il y a un chat sur le toit et Une maison au bord de la mer calme ce soir"

	got := Extract(text)

	require.Len(t, got, 2)
	assert.Equal(t, Candidate{Nom: "chat", Gender: "m", Phrase: "un chat sur le toit et Une maison au bord"}, got[0])
	assert.Equal(t, "maison", got[1].Nom)
	assert.Equal(t, "f", got[1].Gender)
	assert.Equal(t, "Une maison au bord de la mer calme ce soir", got[1].Phrase)
}

func TestExtract_Filters(t *testing.T) {
	got := Extract("un 3 une ONU un petit chien une")

	assert.Empty(t, got, "digits, acronyms, adjectives and a trailing article yield nothing")
}

func TestExtract_ShortPhraseAtEnd(t *testing.T) {
	got := Extract("voici une idée")

	require.Len(t, got, 1)
	assert.Equal(t, "une idée", got[0].Phrase)
}

func TestExtractAll_DedupAndSort(t *testing.T) {
	got := ExtractAll([]string{
		"un zèbre", "une abeille", "un zèbre", "un chat", "une abeille rousse",
	})

	require.Len(t, got, 4)
	assert.Equal(t, []string{"abeille", "abeille", "chat", "zèbre"},
		[]string{got[0].Nom, got[1].Nom, got[2].Nom, got[3].Nom})
	assert.Equal(t, "une abeille", got[0].Phrase, "stable order among equal noms")
	assert.Equal(t, "une abeille rousse", got[1].Phrase)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	err := WriteCSV(&buf, []Candidate{{Nom: "chat", Gender: "m", Phrase: "un chat, noir"}})
	require.NoError(t, err)

	assert.Equal(t, "nom,gender,phrase,score,n,nom_gndr\nchat,m,\"un chat, noir\",0,0,chat_m\n", buf.String())
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "les_noms.csv")

	require.NoError(t, WriteCSVFile(path, ExtractAll([]string{"une table"})))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "table,f,une table,0,0,table_f")
}
