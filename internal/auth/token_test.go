package auth

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("JWTTokenGenerator", func() {
	var gen *JWTTokenGenerator

	BeforeEach(func() {
		gen = NewJWTTokenGenerator(
			"access-secret-0123456789abcdef0000",
			"refresh-secret-0123456789abcdef0000",
			15*time.Minute,
			24*time.Hour,
		)
	})

	It("round-trips access token claims", func() {
		token, err := gen.GenerateAccessToken("user-1", "user@example.com", []string{"EMPLOYEE"})
		Expect(err).NotTo(HaveOccurred())

		claims, err := gen.ValidateAccessToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.Subject).To(Equal("user-1"))
		Expect(claims.Email).To(Equal("user@example.com"))
		Expect(claims.Roles).To(Equal([]string{"EMPLOYEE"}))
		Expect(claims.TokenID).To(BeEmpty())
	})

	It("carries the token id only on refresh tokens", func() {
		token, err := gen.GenerateRefreshToken("user-1", "user@example.com", []string{"EMPLOYEE"}, "token-id-1")
		Expect(err).NotTo(HaveOccurred())

		claims, err := gen.ValidateRefreshToken(token)
		Expect(err).NotTo(HaveOccurred())
		Expect(claims.TokenID).To(Equal("token-id-1"))
	})

	It("rejects a token signed with the other class secret", func() {
		access, err := gen.GenerateAccessToken("user-1", "user@example.com", nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateRefreshToken(access)
		Expect(err).To(Equal(ErrInvalidToken))
	})

	It("rejects an expired token", func() {
		expiredGen := NewJWTTokenGenerator(
			"access-secret-0123456789abcdef0000",
			"refresh-secret-0123456789abcdef0000",
			-time.Minute,
			-time.Minute,
		)
		token, err := expiredGen.GenerateAccessToken("user-1", "user@example.com", nil)
		Expect(err).NotTo(HaveOccurred())

		_, err = gen.ValidateAccessToken(token)
		Expect(err).To(Equal(ErrInvalidToken))
	})

	It("rejects malformed input", func() {
		_, err := gen.ValidateAccessToken("garbage")
		Expect(err).To(Equal(ErrInvalidToken))
	})

	It("fails to sign without a secret", func() {
		empty := NewJWTTokenGenerator("", "", time.Minute, time.Hour)
		_, err := empty.GenerateAccessToken("user-1", "user@example.com", nil)
		Expect(err).To(Equal(ErrMissingSecret))
	})

	It("reports the configured refresh lifetime", func() {
		Expect(gen.RefreshTTL()).To(Equal(24 * time.Hour))
	})
})
