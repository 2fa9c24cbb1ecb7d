package validators

import "go.mongodb.org/mongo-driver/bson"

var NotificationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"user_id", "type", "title", "message", "read", "created_at"},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":     bson.M{"bsonType": "objectId"},
			"user_id": bson.M{"bsonType": "string", "minLength": 1},
			"type": bson.M{
				"bsonType": "string",
				"enum": []string{
					"BOOKING_REQUEST",
					"BOOKING_CONFIRMED",
					"BOOKING_STARTED",
					"BOOKING_COMPLETED",
					"BOOKING_CANCELLED",
				},
			},
			"title":      bson.M{"bsonType": "string", "minLength": 1},
			"message":    bson.M{"bsonType": "string"},
			"data":       bson.M{"bsonType": "object"},
			"related_id": bson.M{"bsonType": "string"},
			"read":       bson.M{"bsonType": "bool"},
			"read_at":    bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
