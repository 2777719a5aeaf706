package leads

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/net/publicsuffix"

	"alevatex/internal/domain"
)

const topDomains = 5

// Stats counts leads per status and lists the most frequent registrable email
// domains (eTLD+1), so inquiries from one company group together.
func (s *Service) Stats(ctx context.Context) domain.Stats {
	return Summarize(s.store.Load(ctx))
}

func Summarize(leads []domain.Lead) domain.Stats {
	st := domain.Stats{Total: len(leads), TopDomains: []domain.DomainCount{}}
	counts := map[string]int{}
	for _, l := range leads {
		switch l.Status {
		case domain.StatusNew:
			st.New++
		case domain.StatusContacted:
			st.Contacted++
		case domain.StatusArchived:
			st.Archived++
		}
		if d := emailDomain(l.Email); d != "" {
			counts[d]++
		}
	}
	for d, n := range counts {
		st.TopDomains = append(st.TopDomains, domain.DomainCount{Domain: d, Count: n})
	}
	sort.Slice(st.TopDomains, func(i, j int) bool {
		a, b := st.TopDomains[i], st.TopDomains[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Domain < b.Domain
	})
	if len(st.TopDomains) > topDomains {
		st.TopDomains = st.TopDomains[:topDomains]
	}
	return st
}

func emailDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at < 0 || at == len(email)-1 {
		return ""
	}
	host := strings.ToLower(email[at+1:])
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
