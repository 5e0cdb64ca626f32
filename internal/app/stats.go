package app

import "github.com/jaakkos/backoffice/internal/domain"

// ProductStats are the summary cards on the products page.
type ProductStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Published  int `json:"published"`
	OutOfStock int `json:"outOfStock"`
}

// UserStats are the summary cards on the users page.
type UserStats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Pending int `json:"pending"`
	Admins  int `json:"admins"`
}

// Stats holds the cards of both pages.
type Stats struct {
	Products ProductStats `json:"products"`
	Users    UserStats    `json:"users"`
}

func productStats(products []domain.Product) ProductStats {
	s := ProductStats{Total: len(products)}
	for _, p := range products {
		if p.IsActive {
			s.Active++
		}
		if p.IsPublished {
			s.Published++
		}
		if p.Quantity == 0 {
			s.OutOfStock++
		}
	}
	return s
}

func userStats(users []domain.User) UserStats {
	s := UserStats{Total: len(users)}
	for _, u := range users {
		switch u.Status {
		case domain.StatusActive:
			s.Active++
		case domain.StatusPending:
			s.Pending++
		}
		if u.Role == domain.RoleAdmin {
			s.Admins++
		}
	}
	return s
}
