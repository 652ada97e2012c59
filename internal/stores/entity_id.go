package stores

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const EntityIdKey = "entity-id"

func SetEntityId(c *gin.Context, id uuid.UUID) {
	c.Set(EntityIdKey, id)
}

func GetEntityId(c *gin.Context) uuid.UUID {
	if value, ok := c.Get(EntityIdKey); ok && value != nil {
		id, ok := value.(uuid.UUID)
		if ok {
			return id
		}
	}

	panic("Entity ID not set, please check the usage of SetEntityId")
}
