package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLookupKeys(t *testing.T) {
	keys := lookupKeys([]string{"507f1f77bcf86cd799439011", "", "user-42", "507f1f77bcf86cd799439011"})

	assert.Len(t, keys, 2)
	_, isOID := keys[0].(primitive.ObjectID)
	assert.True(t, isOID)
	assert.Equal(t, "user-42", keys[1])
}
