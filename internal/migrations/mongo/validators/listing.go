package validators

import "go.mongodb.org/mongo-driver/bson"

var ListingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"host_id",
			"title",
			"city",
			"monthly_price",
			"min_nights",
			"max_guests",
			"is_active",
			"status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"title": bson.M{
				"bsonType":  "string",
				"minLength": 3,
				"maxLength": 200,
			},

			"city": bson.M{
				"bsonType":  "string",
				"minLength": 1,
				"maxLength": 100,
			},

			"photos": bson.M{
				"bsonType": "array",
				"items":    bson.M{"bsonType": "string"},
			},

			"monthly_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"nightly_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"cleaning_fee": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"min_nights": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"max_guests": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"is_active": bson.M{
				"bsonType": "bool",
			},

			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"draft", "active", "inactive"},
			},

			"average_rating": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  5,
			},

			"review_count": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
