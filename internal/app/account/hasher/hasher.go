package hasher

import (
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"

	customErrors "github.com/Miraines/MoonyAndStarry/account-service/internal/domain/account/errors"
)

var DefaultParams = &argon2id.Params{
	Memory:      64 * 1024, // 64 MiB
	Iterations:  2,
	Parallelism: 4,
	SaltLength:  16,
	KeyLength:   32,
}

// maxMemory ограничивает m= в хранимом хэше (KiB), 1 GiB.
const maxMemory = 1024 * 1024

type Argon2Hasher struct {
	params *argon2id.Params
}

func New(params *argon2id.Params) *Argon2Hasher {
	if params == nil {
		params = DefaultParams
	}
	return &Argon2Hasher{params: params}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	hash, err := argon2id.CreateHash(password, h.params)
	if err != nil {
		return "", customErrors.WrapInternal(err, "hash password")
	}
	return hash, nil
}

// Verify также принимает bcrypt-хэши, оставшиеся от старой базы.
func (h *Argon2Hasher) Verify(password, hash string) bool {
	switch {
	case strings.HasPrefix(hash, "$argon2id$"):
		if !usableArgon2(hash) {
			return false
		}
		ok, err := argon2id.ComparePasswordAndHash(password, hash)
		return err == nil && ok
	case isBcrypt(hash):
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
	default:
		return false
	}
}

// usableArgon2 отсекает хэши, на которых argon2.IDKey паникует
// или пытается выделить неограниченную память.
func usableArgon2(hash string) bool {
	params, salt, key, err := argon2id.DecodeHash(hash)
	if err != nil {
		return false
	}
	return params.Iterations >= 1 &&
		params.Parallelism >= 1 &&
		params.Memory >= 1 && params.Memory <= maxMemory &&
		len(salt) > 0 && len(key) > 0
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") ||
		strings.HasPrefix(hash, "$2b$") ||
		strings.HasPrefix(hash, "$2y$")
}
