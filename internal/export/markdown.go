package export

import (
	"fmt"
	"strings"
	"time"

	"techsheet-backend/internal/domain"
)

// Datasheet markdown rendering. Labels follow the printed technical-sheet
// layout used by the lab; values fall back to empty strings so a partially
// filled product still renders.

func formatDate(raw string) string {
	if raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t.Format("02/01/2006")
		}
		return raw
	}
	return time.Now().Format("02/01/2006")
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// Slug builds the download filename stem from the product name.
func Slug(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// CosmeticMarkdown renders the datasheet for a cosmetic product.
func CosmeticMarkdown(p *domain.Product, d *domain.CosmeticDetails) string {
	if d == nil {
		d = &domain.CosmeticDetails{}
	}
	var b strings.Builder
	writeHeader(&b, p)
	fmt.Fprintf(&b, "**CPNP:** %s  \n\n", p.Cpnp)

	b.WriteString("## ANALISI ORGANOLETTICA\n\n")
	fmt.Fprintf(&b, "**Stato/colore:** %s  \n", d.Color)
	fmt.Fprintf(&b, "**Profumazione:** %s  \n", d.Fragrance)
	fmt.Fprintf(&b, "**Percezione sensoriale:** %s  \n", d.Sensorial)
	fmt.Fprintf(&b, "**Assorbibilità:** %s  \n\n", d.Absorbability)

	b.WriteString("## ANALISI CHIMICO-FISICA E MICROBIOLOGICA\n\n")
	fmt.Fprintf(&b, "**pH:** %s  \n", d.Ph)
	fmt.Fprintf(&b, "**Viscosità:** %s cps  \n", d.Viscosity)
	fmt.Fprintf(&b, "**CBT:** %s  \n", d.Cbt)
	fmt.Fprintf(&b, "**Lieviti e muffe:** %s  \n", d.YeastAndMold)
	fmt.Fprintf(&b, "**Escherichia coli:** %s  \n", d.EscherichiaColi)
	fmt.Fprintf(&b, "**Pseudomonas auriginosa:** %s  \n\n", d.Pseudomonas)

	fmt.Fprintf(&b, "## COMPOSIZIONE – INGREDIENTI [i.n.c.i.]\n\n%s\n\n", p.Ingredients)
	writeTestsSection(&b, p)
	writeActivesSection(&b, p)
	fmt.Fprintf(&b, "## CARATTERISTICHE PRINCIPALI\n\n%s\n\n", p.Characteristics)
	fmt.Fprintf(&b, "## MODO D'USO\n\n%s\n\n", p.Usage)
	fmt.Fprintf(&b, "## AVVERTENZE\n\n%s\n\n", p.Warnings)
	writeApprovalSection(&b)
	return b.String()
}

// SupplementMarkdown renders the datasheet for a supplement product.
func SupplementMarkdown(p *domain.Product, d *domain.SupplementDetails) string {
	if d == nil {
		d = &domain.SupplementDetails{}
	}
	var b strings.Builder
	writeHeader(&b, p)
	fmt.Fprintf(&b, "**Aut. Min.:** %s  \n\n", p.AuthMinistry)

	writeTestsSection(&b, p)
	writeActivesSection(&b, p)
	fmt.Fprintf(&b, "## COMPOSIZIONE – INGREDIENTI [i.n.c.i.]\n\n%s\n\n", p.Ingredients)
	fmt.Fprintf(&b, "## TABELLA NUTRIZIONALE\n\n%s\n\n", d.NutritionalInfo)
	fmt.Fprintf(&b, "## INDICAZIONI\n\n%s\n\n", d.Indications)
	fmt.Fprintf(&b, "## MODO D'USO / POSOLOGIA\n\n%s\n\n", d.Dosage)
	fmt.Fprintf(&b, "## AVVERTENZE\n\n%s\n\n", p.Warnings)
	fmt.Fprintf(&b, "## MODALITÀ DI CONSERVAZIONE DEL PRODOTTO\n\n%s\n\n", p.ConservationMethod)
	fmt.Fprintf(&b, "## AVVERTENZE SPECIALI\n\n%s\n\n", p.SpecialWarnings)
	writeApprovalSection(&b)
	return b.String()
}

func writeHeader(b *strings.Builder, p *domain.Product) {
	fmt.Fprintf(b, "# %s\n\n", orDefault(p.Name, "NOME PRODOTTO"))
	fmt.Fprintf(b, "%s\n\n", p.Subtitle)
	fmt.Fprintf(b, "Codice Notifica Prodotto in Farmadati: %s\n\n", orDefault(p.Code, "000000000"))
	b.WriteString("## Scheda Tecnica Prodotto\n\n")
	fmt.Fprintf(b, "**Data:** %s  \n", formatDate(p.Date))
	fmt.Fprintf(b, "**Ref.:** %s  \n", orDefault(p.Ref, orDefault(p.Name, "NOME PRODOTTO")))
	fmt.Fprintf(b, "**Contenuto:** %s ℮  \n", p.Content)
	fmt.Fprintf(b, "**Macrocategoria:** %s  \n", p.Category)
	fmt.Fprintf(b, "**Packaging Primario:** %s  \n", p.Packaging)
	fmt.Fprintf(b, "**Accessorio:** %s  \n", p.Accessory)
	fmt.Fprintf(b, "**Lotto:** %s  \n", p.Batch)
}

func writeTestsSection(b *strings.Builder, p *domain.Product) {
	b.WriteString("## TEST - CERTIFICAZIONI - STUDI SCIENTIFICI - TRIAL CLINICI\n\n")
	fmt.Fprintf(b, "**TEST:** %s  \n", p.Tests)
	fmt.Fprintf(b, "**CERTIFICAZIONI:** %s  \n", p.Certifications)
	fmt.Fprintf(b, "**TRIAL CLINICI:** %s  \n", p.ClinicalTrials)
	fmt.Fprintf(b, "**CLAIM/INDICAZIONI SALUTISTICHE:** %s  \n\n", p.Claims)
}

func writeActivesSection(b *strings.Builder, p *domain.Product) {
	b.WriteString("## PRINCIPI ATTIVI DI ORIGINE VEGETALE - NATURALI IN FORMULA\n\n")
	fmt.Fprintf(b, "**Attivi Naturali Selezionati:** %s  \n", p.NaturalActives)
	fmt.Fprintf(b, "**Attivi Funzionali in formula:** %s  \n\n", p.FunctionalActives)
}

func writeApprovalSection(b *strings.Builder) {
	b.WriteString("## MODULO DI APPROVAZIONE\n\n")
	b.WriteString("APPROVAZIONE CLIENTE\n\n- [ ] SI\n- [ ] NO\n\n")
	b.WriteString("Luogo _______________________ Data _______________________\n\n")
	b.WriteString("Timbro e Firma per Accettazione _______________________________________________________________\n")
}
