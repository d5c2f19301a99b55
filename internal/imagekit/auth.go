// auth.go — параметры аутентификации клиентской загрузки.
package imagekit

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // G505: алгоритм подписи задан протоколом ImageKit
	"encoding/hex"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/bigkaa/pngshots/internal/domain/model"
)

// AuthTTL — срок действия параметров загрузки (ImageKit допускает не более часа).
const AuthTTL = 30 * time.Minute

// AuthenticationParameters выпускает новые параметры загрузки:
// token — случайный UUID, expire — unix-время истечения,
// signature — HMAC-SHA1(privateKey, token+expire) в hex.
// Каждый вызов даёт новую тройку; кэширование недопустимо.
func (c *Client) AuthenticationParameters() (model.AuthParams, error) {
	if c.privateKey == "" {
		return model.AuthParams{}, ErrNoPrivateKey
	}

	token := uuid.NewString()
	expire := c.now().Add(AuthTTL).Unix()

	return model.AuthParams{
		Token:     token,
		Expire:    expire,
		Signature: Sign(c.privateKey, token, expire),
	}, nil
}

// Sign вычисляет подпись параметров загрузки.
func Sign(privateKey, token string, expire int64) string {
	mac := hmac.New(sha1.New, []byte(privateKey))
	mac.Write([]byte(token + strconv.FormatInt(expire, 10)))
	return hex.EncodeToString(mac.Sum(nil))
}
