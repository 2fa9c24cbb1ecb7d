package validators

import "go.mongodb.org/mongo-driver/bson"

// UserValidator only covers the profile fields other services read.
var UserValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"first_name", "last_name"},
		"additionalProperties": true,

		"properties": bson.M{
			"first_name":    bson.M{"bsonType": "string", "maxLength": 100},
			"last_name":     bson.M{"bsonType": "string", "maxLength": 100},
			"email":         bson.M{"bsonType": "string"},
			"phone":         bson.M{"bsonType": "string"},
			"profile_image": bson.M{"bsonType": "string"},
		},
	},
}
