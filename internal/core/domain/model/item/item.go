// Package item holds the Item entity. Items come in three kinds; the
// kind-specific attributes are a tagged variant rather than a type hierarchy.
package item

import (
	"errors"
	"fmt"

	"shop/internal/core/domain/model/kernel"
	"shop/internal/pkg/errs"
)

// Kind tags the variant of an item. Its value is the discriminator stored
// in the items table.
type Kind string

const (
	KindBook  Kind = "B"
	KindAlbum Kind = "A"
	KindMovie Kind = "M"
)

// Validate accepts the three known kinds.
func (k Kind) Validate() error {
	switch k {
	case KindBook, KindAlbum, KindMovie:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("item kind", fmt.Errorf("%q is not a valid kind", string(k)))
	}
}

// Details holds the kind-specific attributes. Only the fields of the item's
// kind are meaningful: Author and ISBN for books, Artist and Etc for albums,
// Director and Actor for movies.
type Details struct {
	Author   string
	ISBN     string
	Artist   string
	Etc      string
	Director string
	Actor    string
}

// Item is a product that can be ordered.
type Item struct {
	kernel.Identity
	name          string
	price         int
	stockQuantity int
	kind          Kind
	details       Details
}

// NewBook creates a book.
func NewBook(id int64, name string, price, stockQuantity int, author, isbn string) (Item, error) {
	return RestoreItem(id, name, price, stockQuantity, KindBook, Details{Author: author, ISBN: isbn})
}

// NewAlbum creates an album.
func NewAlbum(id int64, name string, price, stockQuantity int, artist, etc string) (Item, error) {
	return RestoreItem(id, name, price, stockQuantity, KindAlbum, Details{Artist: artist, Etc: etc})
}

// NewMovie creates a movie.
func NewMovie(id int64, name string, price, stockQuantity int, director, actor string) (Item, error) {
	return RestoreItem(id, name, price, stockQuantity, KindMovie, Details{Director: director, Actor: actor})
}

// RestoreItem rebuilds an item of any kind from persisted state. Attributes
// that do not belong to kind are dropped.
func RestoreItem(id int64, name string, price, stockQuantity int, kind Kind, details Details) (Item, error) {
	identity, idErr := kernel.NewIdentity(id)

	var nameErr, priceErr, stockErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if price < 0 {
		priceErr = errs.NewValueIsInvalidErrorWithCause("price", fmt.Errorf("%d is negative", price))
	}
	if stockQuantity < 0 {
		stockErr = errs.NewValueIsInvalidErrorWithCause("stock quantity", fmt.Errorf("%d is negative", stockQuantity))
	}

	if err := errors.Join(idErr, nameErr, priceErr, stockErr, kind.Validate()); err != nil {
		return Item{}, err
	}

	return Item{
		Identity:      identity,
		name:          name,
		price:         price,
		stockQuantity: stockQuantity,
		kind:          kind,
		details:       details.only(kind),
	}, nil
}

func (i Item) Name() string       { return i.name }
func (i Item) Price() int         { return i.price }
func (i Item) StockQuantity() int { return i.stockQuantity }
func (i Item) Kind() Kind         { return i.kind }
func (i Item) Details() Details   { return i.details }

func (d Details) only(kind Kind) Details {
	switch kind {
	case KindBook:
		return Details{Author: d.Author, ISBN: d.ISBN}
	case KindAlbum:
		return Details{Artist: d.Artist, Etc: d.Etc}
	case KindMovie:
		return Details{Director: d.Director, Actor: d.Actor}
	default:
		return Details{}
	}
}
