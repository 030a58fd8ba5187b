package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// AuditProductKey : le handler y dépose l'id d'un produit qui n'est pas
// dans l'URL (création).
const AuditProductKey = "audit_product_id"

const (
	ActionProductCreate = "PRODUCT_CREATE"
	ActionProductUpdate = "PRODUCT_UPDATE"
	ActionProductDelete = "PRODUCT_DELETE"
)

// AuditAdminAction journalise une mutation admin une fois le handler exécuté.
func AuditAdminAction(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		productID := c.Param("id")
		if productID == "" {
			productID = c.GetString(AuditProductKey)
		}
		if productID == "" {
			productID = "-"
		}
		status := c.Writer.Status()

		if status >= 200 && status < 300 {
			log.Printf("📝 AUDIT %s produit=%s status=%d ip=%s durée=%s",
				action, productID, status, c.ClientIP(), time.Since(start))
			return
		}
		log.Printf("⚠️ AUDIT %s échouée produit=%s status=%d ip=%s",
			action, productID, status, c.ClientIP())
	}
}
