// Package topics defines the static catalog of Machine Learning lesson
// topics. The catalog is fixed at startup; topics are never persisted.
package topics

// Topic is a single lesson subject with its content-generation prompt.
type Topic struct {
	ID     string // unique slug, doubles as the storage key
	Title  string
	Icon   string
	Prompt string
}

// Catalog is the ordered list of topics shown in the portal.
var Catalog = []Topic{
	{
		ID:     "what-is-ml",
		Title:  "What is Machine Learning?",
		Icon:   "◆",
		Prompt: "Explain what Machine Learning is: the core idea of learning from data, how it differs from explicitly programmed rules, real-world applications, and a simple end-to-end example of training a model.",
	},
	{
		ID:     "ml-vs-ai-dl",
		Title:  "ML vs AI vs Deep Learning",
		Icon:   "◈",
		Prompt: "Explain the relationship between Artificial Intelligence, Machine Learning, and Deep Learning. Cover how the fields nest inside each other, representative techniques of each, and when to reach for which.",
	},
	{
		ID:     "ml-pipeline",
		Title:  "The ML Pipeline",
		Icon:   "▶",
		Prompt: "Describe the end-to-end Machine Learning pipeline: data collection, cleaning, feature engineering, train/validation/test splits, model training, evaluation, and deployment. Include a concrete worked example.",
	},
	{
		ID:     "terminology",
		Title:  "Essential Terminology",
		Icon:   "✦",
		Prompt: "Define the essential Machine Learning vocabulary: features, labels, training set, test set, model, parameters, hyperparameters, loss function, epoch, gradient descent. Give a short example for each term.",
	},
	{
		ID:     "learning-types",
		Title:  "Types of Learning",
		Icon:   "❖",
		Prompt: "Explain the main paradigms of machine learning: supervised, unsupervised, semi-supervised, and reinforcement learning. Compare them in a table and give two canonical example problems for each.",
	},
	{
		ID:     "supervised-learning",
		Title:  "Supervised Learning",
		Icon:   "●",
		Prompt: "Teach supervised learning in depth: regression vs classification, common algorithms (linear regression, logistic regression, decision trees, k-NN, SVM), how training with labeled data works, and typical pitfalls.",
	},
	{
		ID:     "unsupervised-learning",
		Title:  "Unsupervised Learning",
		Icon:   "○",
		Prompt: "Teach unsupervised learning: clustering (k-means, hierarchical), dimensionality reduction (PCA), anomaly detection, and association rules. Explain when unlabeled data is enough and what the results mean.",
	},
	{
		ID:     "neural-networks",
		Title:  "Neural Network Basics",
		Icon:   "◉",
		Prompt: "Introduce neural networks from first principles: neurons, weights and biases, activation functions, layers, forward propagation, loss, and backpropagation at an intuitive level. Include a small numeric example.",
	},
	{
		ID:     "overfitting",
		Title:  "Overfitting & Underfitting",
		Icon:   "◬",
		Prompt: "Explain overfitting and underfitting: the bias-variance trade-off, how to recognize each from learning curves, and remedies such as regularization, cross-validation, early stopping, and more data.",
	},
	{
		ID:     "model-evaluation",
		Title:  "Model Evaluation",
		Icon:   "▣",
		Prompt: "Cover model evaluation: accuracy, precision, recall, F1, confusion matrices, ROC/AUC for classification; MAE, MSE, R² for regression; and why a single metric is rarely enough. Include worked calculations.",
	},
	{
		ID:     "feature-engineering",
		Title:  "Feature Engineering",
		Icon:   "✱",
		Prompt: "Teach feature engineering: encoding categorical variables, scaling and normalization, handling missing values, creating derived features, and feature selection. Show before/after examples on a small dataset.",
	},
	{
		ID:     "practical-project",
		Title:  "A Practical Project",
		Icon:   "★",
		Prompt: "Walk through a complete beginner Machine Learning project predicting house prices: loading data, exploration, feature preparation, training a regression model, evaluating it, and iterating. Use Python code examples throughout.",
	},
}

// Find returns the topic with the given id, or false if the id is not
// in the catalog.
func Find(id string) (Topic, bool) {
	for _, t := range Catalog {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}
