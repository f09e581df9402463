package outline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkerParser_Parse(t *testing.T) {
	text := "Prérequis : aucun\n" +
		"  Chapitre 1: Basics  \n" +
		"Description du chapitre\n" +
		"Chapitre 2: Joins\n" +
		"Sous-chapitre Chapitre interne\n" +
		"Conclusion"

	titles := NewMarkerParser("Chapitre").Parse(text)
	assert.Equal(t, []string{"Chapitre 1: Basics", "Chapitre 2: Joins"}, titles)
}

func TestMarkerParser_NoMarkers(t *testing.T) {
	assert.Empty(t, NewMarkerParser("Module").Parse("Chapitre 1\nChapitre 2"))
	assert.Empty(t, NewMarkerParser("Module").Parse(""))
}

func TestMarkerParser_KeepsDuplicates(t *testing.T) {
	titles := NewMarkerParser("Module").Parse("Module 1: Intro\nModule 1: Intro\r\n")
	assert.Equal(t, []string{"Module 1: Intro", "Module 1: Intro"}, titles)
}

func TestMarkerParser_SeveralMarkers(t *testing.T) {
	titles := NewMarkerParser("Chapitre", "Module").Parse("Module A\nChapitre B\nPartie C")
	assert.Equal(t, []string{"Module A", "Chapitre B"}, titles)
}

func TestCleaner_Clean(t *testing.T) {
	c := NewCleaner(DefaultBoilerplate)
	assert.Equal(t, "un plan :\nChapitre 1", c.Clean("Sure! Here is un plan :\nChapitre 1\n"))
	assert.Equal(t, "texte", NewCleaner(nil).Clean("  texte "))
}
