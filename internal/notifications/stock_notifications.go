package notifications

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"lumiere/internal/store"

	"github.com/9ssi7/exponent"
)

// SendBackInStock - notify every user who wishlisted a product that it is available again.
func SendBackInStock(ctx context.Context, push PushSender, storage *store.Storage, productID int64, productName, productSlug string) error {

	userIDs, err := storage.Wishlists.UserIDsWithProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("error getting wishlist users: %w", err)
	}
	if len(userIDs) == 0 {
		return nil
	}

	tokensMap, err := storage.PushTokens.GetTokensByUserIDs(ctx, userIDs)
	if err != nil {
		return fmt.Errorf("error getting user tokens: %w", err)
	}

	allTokens := make([]string, 0)
	for _, tokens := range tokensMap {
		allTokens = append(allTokens, tokens...)
	}
	compactTokens := dedupe(allTokens)
	if len(compactTokens) == 0 {
		return errors.New("no push tokens found for any wishlist users")
	}

	msgs := make([]*exponent.Message, 0, len(compactTokens))
	title := "Back in stock"
	body := fmt.Sprintf("%s is available again", productName)
	screen := fmt.Sprintf("products/%s", productSlug)
	for _, t := range compactTokens {
		token := exponent.Token(t)
		msg := &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			Data: map[string]string{
				"type":       "back_in_stock",
				"product_id": strconv.FormatInt(productID, 10),
				"screen":     screen,
			},
		}
		msgs = append(msgs, msg)
	}

	if _, err := push.Publish(ctx, msgs); err != nil {
		return fmt.Errorf("error sending back-in-stock notifications: %w", err)
	}
	return nil
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
