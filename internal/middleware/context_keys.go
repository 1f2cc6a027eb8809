package middleware

import "github.com/gin-gonic/gin"

// accountNumberKey is the key used to store the authenticated session's account number.
const accountNumberKey = contextKey("accountNumber")

// GetAccountNumberFromContext retrieves the account number of the authenticated session.
// It returns the account number and a boolean indicating if it was found.
func GetAccountNumberFromContext(c *gin.Context) (string, bool) {
	val := c.Request.Context().Value(accountNumberKey)
	if val == nil {
		return "", false
	}
	accountNumber, ok := val.(string)
	if !ok || accountNumber == "" {
		return "", false
	}
	return accountNumber, true
}
