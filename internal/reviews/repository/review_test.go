package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestRatingPipeline(t *testing.T) {
	pipeline := ratingPipeline("507f1f77bcf86cd799439011")

	require.Len(t, pipeline, 2)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, bson.M{"listing_id": "507f1f77bcf86cd799439011"}, pipeline[0][0].Value)

	group := pipeline[1][0]
	assert.Equal(t, "$group", group.Key)
	assert.Equal(t, bson.M{"$avg": "$overall"}, group.Value.(bson.M)["average"])
	assert.Equal(t, bson.M{"$sum": 1}, group.Value.(bson.M)["count"])
}
