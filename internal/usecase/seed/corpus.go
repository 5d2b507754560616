package seed

import (
	"fmt"

	"github.com/kailas-cloud/simplerag/internal/domain/document"
	"github.com/kailas-cloud/simplerag/internal/domain/locale"
)

type entry struct {
	text   string
	locale locale.Locale
}

var corpus = []entry{
	{"A powerfull female adult woman member of a monarchy", locale.EnUS},
	{"A powerfull female teenager member of a monarchy", locale.EnUS},
	{"Una persona de sexo masculino con poder supremo en una monarquía", locale.EsMX},
	{"Une personne de sexe masculin avec beaucoup de pouvoir dans une république présidentielle", locale.FrFR},
	{"A male figure with supreme authority in the Roman Catholic Church", locale.EnUS},
	{"Una persona di sesso maschile con potere di comando in un capo tribù di una tribù indigena del Brasile", locale.ItIT},
	{"It is a large piece of fabric used to catch the wind and propel a boat forward", locale.EnUS},
	{"É uma superfície de tecido usada para captar o vento e impulsionar um barco", locale.PtBR},
	{"É um objeto composto por cera ou parafina, que, ao ser aceso, emite luz", locale.PtBR},
	{"É um componente da ignição de um motor, que gera a faísca que acende a mistura de ar e combustível", locale.PtBR},
	{"The iPhone 15 has a 6.1-inch display, A16 Bionic chip, 48MP rear camera, 5G connectivity, and 128GB storage.", locale.EnUS},
}

// Corpus builds the demonstration documents with fresh ids, one locale tag each.
func Corpus() ([]document.Document, error) {
	docs := make([]document.Document, 0, len(corpus))
	for i, e := range corpus {
		d, err := document.New("", e.text, map[string]string{locale.Key: e.locale.String()})
		if err != nil {
			return nil, fmt.Errorf("corpus entry %d: %w", i, err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}
