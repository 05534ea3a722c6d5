package application

import "github.com/Vadim-3/b2-hm14/internal/domain/entity"

type contactPredicate func(entity.Contact) bool

// searchPredicates builds one exact-match predicate per supplied filter,
// in first name, last name, email order.
func searchPredicates(firstName, lastName, email *string) []contactPredicate {
	var preds []contactPredicate
	if firstName != nil {
		v := *firstName
		preds = append(preds, func(c entity.Contact) bool { return c.FirstName == v })
	}
	if lastName != nil {
		v := *lastName
		preds = append(preds, func(c entity.Contact) bool { return c.LastName == v })
	}
	if email != nil {
		v := *email
		preds = append(preds, func(c entity.Contact) bool { return c.Email == v })
	}
	return preds
}

// matchAny applies every predicate to the whole set and concatenates the
// per-predicate results. A contact matching two filters appears twice.
func matchAny(all []entity.Contact, preds []contactPredicate) []entity.Contact {
	out := make([]entity.Contact, 0)
	for _, p := range preds {
		for _, c := range all {
			if p(c) {
				out = append(out, c)
			}
		}
	}
	return out
}
