package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"tour-booking/backend/internal/model"
	"tour-booking/backend/internal/repository"
)

// Result 初始化后的关键记录，供调用方输出或继续使用
type Result struct {
	Category    *model.TourCategory
	Destination *model.Destination
	Guide       *model.TourGuide
	Tour        *model.Tour
	Schedule    *model.TourSchedule
	Booking     *model.TourBooking
	Review      *model.TourReview
}

// Run 在单个事务中写入初始数据；重复执行不会产生重复记录
func Run(ctx context.Context, repo *repository.Repository, logger *zap.Logger) (*Result, error) {
	logger.Info("开始写入初始数据...")

	var res Result
	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		res.Category = &model.TourCategory{
			Name:        "Adventure",
			Description: "Exciting and adventurous tours for thrill-seekers.",
			Image:       "https://example.com/adventure.jpg",
			Slug:        "adventure",
		}
		if err := tx.Catalog.FirstOrCreateCategory(ctx, res.Category); err != nil {
			return fmt.Errorf("写入分类失败: %w", err)
		}

		res.Destination = &model.Destination{
			Name:        "Everest Base Camp",
			Country:     "Nepal",
			City:        "Kathmandu",
			Description: "A thrilling trek to the base camp of Mount Everest.",
			Images:      model.StringArray{"https://example.com/everest1.jpg", "https://example.com/everest2.jpg"},
			Latitude:    28.0026,
			Longitude:   86.8528,
		}
		if err := tx.Catalog.FirstOrCreateDestination(ctx, res.Destination); err != nil {
			return fmt.Errorf("写入目的地失败: %w", err)
		}

		res.Guide = &model.TourGuide{
			FirstName:    "John",
			LastName:     "Doe",
			Email:        "john.doe@example.com",
			Phone:        "+123456789",
			Languages:    model.StringArray{"English", "Spanish"},
			Expertise:    model.StringArray{"Mountaineering", "Trekking"},
			Rating:       4.8,
			ProfileImage: "https://example.com/john.jpg",
			Bio:          "An experienced guide with over 10 years of trekking expertise.",
			Documents:    model.StringArray{"https://example.com/certificate.jpg"},
		}
		if err := tx.Catalog.FirstOrCreateGuide(ctx, res.Guide); err != nil {
			return fmt.Errorf("写入导游失败: %w", err)
		}

		res.Tour = &model.Tour{
			Title:         "Everest Base Camp Trek",
			Slug:          "everest-base-camp-trek",
			Description:   "An adventurous trek to the Everest Base Camp.",
			Highlights:    model.StringArray{"Amazing views", "Thrilling experience", "Professional guides"},
			Duration:      14,
			MaxGroupSize:  15,
			MinAge:        12,
			Difficulty:    "CHALLENGING",
			DestinationID: res.Destination.ID,
			CategoryID:    res.Category.ID,
			BasePrice:     1500.0,
			Images:        model.StringArray{"https://example.com/everest-tour1.jpg", "https://example.com/everest-tour2.jpg"},
			Itinerary: mustJSON([]map[string]interface{}{
				{"day": 1, "description": "Arrival in Kathmandu"},
				{"day": 2, "description": "Fly to Lukla and trek to Phakding"},
			}),
			Included:           model.StringArray{"Guides", "Accommodation", "Meals"},
			Excluded:           model.StringArray{"Travel insurance", "International airfare"},
			CancellationPolicy: "Full refund if cancelled 30 days before departure.",
			TourGuides:         []model.TourGuide{*res.Guide},
		}
		if err := tx.Catalog.FirstOrCreateTour(ctx, res.Tour); err != nil {
			return fmt.Errorf("写入线路失败: %w", err)
		}

		res.Schedule = &model.TourSchedule{
			TourID:         res.Tour.ID,
			StartDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			Price:          1600.0,
			AvailableSeats: 10,
			Status:         model.ScheduleStatusUpcoming,
			Guides:         []model.TourGuide{*res.Guide},
		}
		if err := tx.Catalog.FirstOrCreateSchedule(ctx, res.Schedule); err != nil {
			return fmt.Errorf("写入团期失败: %w", err)
		}

		res.Booking = &model.TourBooking{
			BookingRef:  "BOOK12345",
			TourID:      res.Tour.ID,
			ScheduleID:  res.Schedule.ID,
			TotalAmount: 1600.0,
			Status:      "CONFIRMED",
			Participants: mustJSON([]map[string]interface{}{
				{"name": "Alice", "age": 25},
				{"name": "Bob", "age": 28},
			}),
			ContactInfo:   mustJSON(map[string]string{"email": "alice@example.com", "phone": "+987654321"}),
			PaymentStatus: "COMPLETED",
			PaymentDetails: mustJSON(map[string]interface{}{
				"transactionId": "PAY12345",
				"method":        "Credit Card",
				"amount":        1600.0,
			}),
		}
		if err := tx.Catalog.FirstOrCreateBooking(ctx, res.Booking); err != nil {
			return fmt.Errorf("写入预订失败: %w", err)
		}

		res.Review = &model.TourReview{
			TourID:     res.Tour.ID,
			BookingID:  res.Booking.ID,
			Rating:     5.0,
			Review:     "Amazing experience! Highly recommended.",
			Images:     model.StringArray{"https://example.com/review1.jpg"},
			IsVerified: true,
		}
		if err := tx.Catalog.FirstOrCreateReview(ctx, res.Review); err != nil {
			return fmt.Errorf("写入评价失败: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("初始数据写入完成",
		zap.String("guide_id", res.Guide.ID),
		zap.String("tour_id", res.Tour.ID),
		zap.String("schedule_id", res.Schedule.ID),
	)
	return &res, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return datatypes.JSON(b)
}
