// Package knowledge answers common questions from a small canned table so
// the obvious ones never cost a remote model call.
package knowledge

import (
	"github.com/fesaone/fesabot/internal/config"
)

// matchThreshold is the fraction of input tokens that must hit an entry's
// keyword set. Strictly greater-than: a score of exactly 0.5 does not match.
const matchThreshold = 0.5

type entry struct {
	keys     map[string]struct{}
	response string
}

// Table scores tokenized user input against canned answers.
type Table struct {
	entries []entry
}

// NewTable builds a Table from deployer-supplied entries. Keys are expected
// lowercase; they are matched against Tokenize output.
func NewTable(entries []config.KnowledgeEntry) *Table {
	t := &Table{entries: make([]entry, 0, len(entries))}
	for _, e := range entries {
		keys := make(map[string]struct{}, len(e.Keys))
		for _, k := range e.Keys {
			keys[k] = struct{}{}
		}
		t.entries = append(t.entries, entry{keys: keys, response: e.Response})
	}
	return t
}

// Load returns the table to serve from: the config-supplied entries when
// present, otherwise the built-in Fesaone set.
func Load(entries []config.KnowledgeEntry) *Table {
	if len(entries) == 0 {
		entries = defaultEntries
	}
	return NewTable(entries)
}

// Match returns the response of the best-scoring entry, or ok=false when no
// entry scores strictly above the threshold. Score is matched tokens divided
// by total input tokens, which biases toward short keyword-dense queries.
// The strictly-greater comparison means the first entry wins ties.
func (t *Table) Match(tokens []string) (response string, ok bool) {
	if len(tokens) == 0 {
		return "", false
	}

	var best string
	bestScore := matchThreshold
	for _, e := range t.entries {
		matched := 0
		for _, tok := range tokens {
			if _, hit := e.keys[tok]; hit {
				matched++
			}
		}
		score := float64(matched) / float64(len(tokens))
		if score > bestScore {
			bestScore = score
			best = e.response
			ok = true
		}
	}
	return best, ok
}

// Lookup tokenizes text and matches it in one step.
func (t *Table) Lookup(text string) (string, bool) {
	return t.Match(Tokenize(text))
}

// defaultEntries is the built-in Fesaone knowledge set. Responses carry
// markdown and bare URLs; formatting happens at render time.
var defaultEntries = []config.KnowledgeEntry{
	{
		Keys: []string{
			"siapa", "pembuat", "creator", "author", "kamu", "identitas",
			"fauzi", "pengembang", "founder", "dev", "owner", "kapan",
			"dibuat", "tahun", "tanggal", "rilis", "lahir", "sejarah",
			"dari", "mana", "asal", "lokasi", "domisili", "tentang",
			"fesabot", "fesaone",
		},
		Response: "**Fesaone AI** dikembangkan oleh **Fauzi Eka Suryana** di Bandung, Indonesia (Januari 2026).\n\nBeliau adalah Developer, UI/UX Designer, dan Pro Gamer yang memulai karir sejak 2019. Saat ini aktif sebagai Tech Lead untuk teknologi livestreaming di *Radar Bandung* dan *R Media*.",
	},
	{
		Keys: []string{
			"kontak", "email", "hubungi", "call", "tanya", "admin",
			"telepon", "nomor", "hp", "no", "whatsapp", "wa", "instagram",
			"ig", "sosmed", "social", "media", "twitter", "linkedin",
		},
		Response: "Anda dapat menghubungi Fauzi Eka Suryana melalui:\n• Email: dev@fesa.one (mailto:dev@fesa.one)\n• Telepon: +62-8999-9400-44\n• Instagram: @fesaonedev (https://instagram.com/fesaonedev)",
	},
	{
		Keys: []string{
			"layanan", "produk", "jasa", "fitur", "website", "situs",
			"url", "link", "store", "toko", "belanja", "beli", "harga",
			"tema", "theme", "plugin", "sistem", "system", "sandbox",
			"playground", "demo",
		},
		Response: "Layanan Ekosistem Fesaone:\n• **AI Chat:** fesa.one (https://fesa.one/)\n• **Playground:** SANDBOX (https://fesa.one/sandbox/)\n• **Store (Themes & System):** Fesa Store (https://fesa.one/store/)",
	},
	{
		Keys: []string{
			"terms", "tos", "syarat", "ketentuan", "rules", "privacy",
			"privasi", "kebijakan", "data", "aman", "riset", "research",
			"agi", "penelitian", "help", "bantuan", "panduan", "pakai",
		},
		Response: "Info Legal & Riset:\n• Riset AGI: Research Page (https://fesa.one/research/)\n• Privacy & Terms: Lihat Dokumen (https://fesa.one/terms-of-service)",
	},
}
