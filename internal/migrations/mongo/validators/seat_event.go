package validators

import (
	"schoolclasses/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

var SeatEventValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"_id",
			"class_id",
			"type",
			"seats",
			"occurred_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id": bson.M{
				"bsonType":  "string",
				"minLength": 1,
			},

			"class_id": bson.M{
				"bsonType":  "string",
				"minLength": 24,
				"maxLength": 24,
			},

			"class_name": bson.M{
				"bsonType": "string",
			},

			"type": bson.M{
				"enum": []string{model.EventClassCreated, model.EventSeatBooked, model.EventSeatReleased},
			},

			"seats": bson.M{
				"bsonType": []string{"int", "long"},
				"minimum":  0,
			},

			"occurred_at": bson.M{
				"bsonType": "date",
			},

			"recorded_at": bson.M{
				"bsonType": "date",
			},
		},
	},
}
