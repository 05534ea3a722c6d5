package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/Vadim-3/b2-hm14/internal/domain/entity"
	"github.com/Vadim-3/b2-hm14/pkg/helpers"
)

const requestTimeout = 3 * time.Second

// ContactIndex mirrors contacts into an Elasticsearch index for free-text lookup.
type ContactIndex struct {
	ES        *elasticsearch.Client
	IndexName string
}

func NewContactIndex(es *elasticsearch.Client, index string) *ContactIndex {
	return &ContactIndex{ES: es, IndexName: index}
}

type contactDoc struct {
	ID           int64   `json:"id"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	BirthdayDate string  `json:"birthday_date"`
	Email        string  `json:"email"`
	PhoneNumber  string  `json:"phone_number"`
	Note         *string `json:"note,omitempty"`
}

func toDoc(c entity.Contact) contactDoc {
	return contactDoc{
		ID:           c.ID,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		BirthdayDate: helpers.FormatDate(c.BirthdayDate),
		Email:        c.Email,
		PhoneNumber:  c.PhoneNumber,
		Note:         c.Note,
	}
}

func (d contactDoc) contact() (entity.Contact, error) {
	b, err := helpers.ParseDate(d.BirthdayDate)
	if err != nil {
		return entity.Contact{}, err
	}
	return entity.Contact{
		ID:           d.ID,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		BirthdayDate: b,
		Email:        d.Email,
		PhoneNumber:  d.PhoneNumber,
		Note:         d.Note,
	}, nil
}

func (x *ContactIndex) Index(ctx context.Context, c entity.Contact) error {
	b, err := json.Marshal(toDoc(c))
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{
		Index:      x.IndexName,
		DocumentID: strconv.FormatInt(c.ID, 10),
		Body:       strings.NewReader(string(b)),
		Refresh:    "false",
	}
	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index contact %d: %s", c.ID, res.Status())
	}
	return nil
}

// Remove deletes contact id from the index. A missing document is not an error.
func (x *ContactIndex) Remove(ctx context.Context, id int64) error {
	req := esapi.DeleteRequest{Index: x.IndexName, DocumentID: strconv.FormatInt(id, 10)}
	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()
	res, err := req.Do(cctx, x.ES)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es delete contact %d: %s", id, res.Status())
	}
	return nil
}

// Search runs a multi_match query over names, email and phone.
func (x *ContactIndex) Search(ctx context.Context, q string, size int) ([]entity.Contact, error) {
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"first_name^2", "last_name^2", "email", "phone_number"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	cctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	res, err := x.ES.Search(
		x.ES.Search.WithContext(cctx),
		x.ES.Search.WithIndex(x.IndexName),
		x.ES.Search.WithBody(strings.NewReader(string(b))),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return nil, fmt.Errorf("es search: %s", res.Status())
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source contactDoc `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]entity.Contact, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		c, err := h.Source.contact()
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}
