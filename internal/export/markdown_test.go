package export

import (
	"strings"
	"testing"

	"techsheet-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "crema-mani", Slug("Crema Mani"))
	assert.Equal(t, "crema-mani-50ml", Slug("  Crema   Mani 50ml "))
}

func TestCosmeticMarkdown(t *testing.T) {
	p := &domain.Product{
		Name:        "Crema Mani",
		Code:        "935772099",
		Date:        "2026-01-15",
		Cpnp:        "123456",
		Ingredients: "Aqua, Glycerin",
	}
	d := &domain.CosmeticDetails{Color: "Bianco perlato", Ph: "5.5"}

	md := CosmeticMarkdown(p, d)

	assert.True(t, strings.HasPrefix(md, "# Crema Mani\n"))
	assert.Contains(t, md, "## Scheda Tecnica Prodotto")
	assert.Contains(t, md, "**Data:** 15/01/2026")
	assert.Contains(t, md, "**CPNP:** 123456")
	assert.Contains(t, md, "## ANALISI ORGANOLETTICA")
	assert.Contains(t, md, "**Stato/colore:** Bianco perlato")
	assert.Contains(t, md, "**pH:** 5.5")
	assert.Contains(t, md, "Aqua, Glycerin")
	assert.Contains(t, md, "## MODULO DI APPROVAZIONE")
	assert.Contains(t, md, "- [ ] SI")
	// Supplement-only sections stay out.
	assert.NotContains(t, md, "TABELLA NUTRIZIONALE")
}

func TestSupplementMarkdown(t *testing.T) {
	p := &domain.Product{
		Name:         "Integratore C",
		AuthMinistry: "IT-2026-001",
	}
	d := &domain.SupplementDetails{
		NutritionalInfo: "Vitamina C 80mg",
		Indications:     "Difese immunitarie",
		Dosage:          "1 compressa al giorno",
	}

	md := SupplementMarkdown(p, d)

	assert.Contains(t, md, "**Aut. Min.:** IT-2026-001")
	assert.Contains(t, md, "## TABELLA NUTRIZIONALE")
	assert.Contains(t, md, "Vitamina C 80mg")
	assert.Contains(t, md, "## MODO D'USO / POSOLOGIA")
	assert.Contains(t, md, "1 compressa al giorno")
	assert.NotContains(t, md, "ANALISI ORGANOLETTICA")
}

func TestMarkdown_PlaceholdersAndNilDetails(t *testing.T) {
	md := CosmeticMarkdown(&domain.Product{}, nil)
	assert.Contains(t, md, "# NOME PRODOTTO")
	assert.Contains(t, md, "000000000")

	// An unparseable date is passed through untouched.
	md = CosmeticMarkdown(&domain.Product{Date: "gennaio 2026"}, nil)
	assert.Contains(t, md, "**Data:** gennaio 2026")
}
