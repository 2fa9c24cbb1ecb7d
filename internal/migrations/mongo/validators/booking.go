package validators

import "go.mongodb.org/mongo-driver/bson"

var integer = []string{"int", "long"}

var BookingValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"booking_code",
			"listing_id",
			"guest_id",
			"host_id",
			"check_in",
			"check_out",
			"total_nights",
			"adults",
			"guests",
			"total_price",
			"status",
			"payment_status",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType": "objectId",
			},

			"booking_code": bson.M{
				"bsonType":  "string",
				"minLength": 8,
				"maxLength": 32,
			},

			"listing_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"guest_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"host_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"check_in": bson.M{
				"bsonType": "date",
			},

			"check_out": bson.M{
				"bsonType": "date",
			},

			"total_nights": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"adults": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"children": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"infants": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"pets": bson.M{
				"bsonType": integer,
				"minimum":  0,
			},

			"guests": bson.M{
				"bsonType": integer,
				"minimum":  1,
			},

			"total_price": bson.M{
				"bsonType": "double",
				"minimum":  0,
			},

			"status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"CONFIRMED",
					"IN_PROGRESS",
					"COMPLETED",
					"CANCELLED",
				},
			},

			"payment_status": bson.M{
				"bsonType": "string",
				"enum": []string{
					"PENDING",
					"PAID",
					"REFUNDED",
					"FAILED",
				},
			},

			"refund_fraction": bson.M{
				"bsonType": "double",
				"minimum":  0,
				"maximum":  1,
			},

			"created_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}

var BookingLockValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"listing_id", "owner", "expires_at"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":        bson.M{"bsonType": "string"},
			"listing_id": bson.M{"bsonType": "string", "minLength": 1},
			"owner":      bson.M{"bsonType": "string", "minLength": 1},
			"expires_at": bson.M{"bsonType": "date"},
			"created_at": bson.M{"bsonType": "date"},
		},
	},
}
