package validators

import "go.mongodb.org/mongo-driver/bson"

func score() bson.M {
	return bson.M{"bsonType": integer, "minimum": 1, "maximum": 5}
}

var ReviewValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"reviewer_id", "overall", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":           bson.M{"bsonType": "objectId"},
			"reviewer_id":   bson.M{"bsonType": "string", "minLength": 1},
			"reviewee_id":   bson.M{"bsonType": "string"},
			"listing_id":    bson.M{"bsonType": "string"},
			"booking_id":    bson.M{"bsonType": "string"},
			"overall":       score(),
			"cleanliness":   score(),
			"accuracy":      score(),
			"communication": score(),
			"location":      score(),
			"check_in":      score(),
			"value":         score(),
			"comment":       bson.M{"bsonType": "string", "maxLength": 2000},
			"created_at":    bson.M{"bsonType": "date"},
		},
	},
}
