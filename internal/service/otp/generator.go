package otp

import (
	"crypto/rand"
	"fmt"
	"math"
	"math/big"

	"github.com/rentmyvroom/RMV-CoreService/internal/domain"
)

// CodeGenerator стратегия генерации одноразовых кодов.
// Выбирается при сборке сервиса из конфигурации.
type CodeGenerator interface {
	Generate() (string, error)
	// Fixed сообщает, что генератор всегда возвращает один и тот же код
	// (тестовый режим: cooldown и доставка пропускаются)
	Fixed() bool
}

// RandomGenerator генерирует криптостойкие цифровые коды заданной длины
type RandomGenerator struct {
	length int
}

// NewRandomGenerator создает генератор кодов стандартной длины
func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{length: domain.DefaultOTPLength}
}

func (g *RandomGenerator) Generate() (string, error) {
	limit := big.NewInt(int64(math.Pow10(g.length)))

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("%w: Generate - crypto/rand: %v", ErrInternal, err)
	}

	return fmt.Sprintf("%0*d", g.length, n), nil
}

func (g *RandomGenerator) Fixed() bool { return false }

// FixedGenerator всегда возвращает заранее заданный код.
// Используется в тестовых окружениях, где нет доступа к WhatsApp.
type FixedGenerator struct {
	code string
}

// NewFixedGenerator создает генератор с фиксированным кодом
func NewFixedGenerator(code string) *FixedGenerator {
	return &FixedGenerator{code: code}
}

func (g *FixedGenerator) Generate() (string, error) {
	return g.code, nil
}

func (g *FixedGenerator) Fixed() bool { return true }
